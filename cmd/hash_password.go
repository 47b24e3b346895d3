package cmd

import (
	"fmt"

	"stonehub/db"
	"stonehub/repository"

	"github.com/spf13/cobra"
	gormlogger "gorm.io/gorm/logger"
)

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password",
	Short: "把遗留的明文密码批量升级为 bcrypt",
	Long: `扫描 users 表，将所有尚未哈希的明文密码替换为 bcrypt 哈希。
登录时也会逐个升级，此命令用于一次性完成迁移。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		gdb, err := db.Open(cfg, gormlogger.Warn)
		if err != nil {
			return err
		}
		defer db.Close(gdb)

		n, err := repository.NewGormUserRepository(gdb).UpgradeLegacyPasswords(cmd.Context())
		fmt.Printf("已升级 %d 个明文密码\n", n)
		if err != nil {
			return fmt.Errorf("部分密码未能升级: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashPasswordCmd)
}
