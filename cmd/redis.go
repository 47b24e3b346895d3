package cmd

import (
	"fmt"

	"stonehub/db"
	"stonehub/logger"

	"github.com/spf13/cobra"
)

var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Redis连接测试",
	Long:  `测试Redis连接是否成功，并进行基本读写操作。redis 会话后端启用前可用它确认配置。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Redis配置: %s, DB: %d\n", cfg.RedisAddr(), cfg.RedisDB)

		client, err := db.ConnectRedis(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := client.Close(); err != nil {
				logger.Warn("[Redis] 关闭连接失败", logger.ErrorField(err))
			}
		}()
		fmt.Println("Redis连接成功！")

		if err := db.CheckRedis(cmd.Context(), client); err != nil {
			return fmt.Errorf("Redis操作测试失败: %w", err)
		}
		fmt.Println("Redis基本操作测试成功！")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(redisCmd)
}
