package cmd

import (
	"fmt"

	"stonehub/db"

	"github.com/spf13/cobra"
	gormlogger "gorm.io/gorm/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "创建或更新数据库表结构",
	Long:  `对配置的数据库执行表结构迁移（users、community_posts、feedback、kda_progress），不启动服务器。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		gdb, err := db.Open(cfg, gormlogger.Warn)
		if err != nil {
			return err
		}
		defer db.Close(gdb)

		if err := db.Migrate(gdb); err != nil {
			return err
		}
		fmt.Printf("数据库迁移完成 (%s)\n", cfg.DBDriver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
