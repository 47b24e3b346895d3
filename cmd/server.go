package cmd

import (
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "启动 Stonehub 服务器",
	Long:  `启动 Stonehub 的 HTTP 服务器，提供账号、社区、反馈和 KDA 进度 API 以及页面服务`,
	Run: func(cmd *cobra.Command, args []string) {
		runServer()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
