package cmd

import (
	"fmt"
	"time"

	"stonehub/storage"

	"github.com/spf13/cobra"
)

var (
	imagesPrefix string
	imagesStats  bool
	imagesSync   bool
)

var imagesCmd = &cobra.Command{
	Use:   "images",
	Short: "图片存储管理",
	Long: `查看 /images/ 背后的图片存储（本地目录或 MinIO 存储桶）。
配置了 MINIO_ENDPOINT 时可用 --sync 将本地 IMAGES_DIR 上传到存储桶。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, err := storage.NewImageStore(ctx, cfg)
		if err != nil {
			return err
		}

		if imagesSync {
			remote, ok := store.(*storage.MinioImageStore)
			if !ok {
				return fmt.Errorf("--sync 需要配置 MINIO_ENDPOINT")
			}
			n, err := remote.SyncFrom(ctx, storage.NewLocalImageStore(cfg.ImagesDir))
			if err != nil {
				return fmt.Errorf("同步失败（已上传 %d 个文件）: %w", n, err)
			}
			fmt.Printf("已从 %s 上传 %d 个文件到存储桶 %s\n", cfg.ImagesDir, n, cfg.MinioBucket)
			return nil
		}

		objects, err := store.List(ctx, imagesPrefix)
		if err != nil {
			return err
		}

		if imagesStats {
			var total int64
			var last time.Time
			for _, obj := range objects {
				total += obj.Size
				if obj.LastModified.After(last) {
					last = obj.LastModified
				}
			}
			fmt.Printf("前缀过滤: %q\n", imagesPrefix)
			fmt.Printf("总文件数: %d\n", len(objects))
			fmt.Printf("总存储大小: %s\n", storage.FormatSize(total))
			if !last.IsZero() {
				fmt.Printf("最后更新时间: %s\n", last.Format("2006-01-02 15:04:05"))
			}
			return nil
		}

		for _, obj := range objects {
			fmt.Printf("%-48s %10s  %s\n", obj.Key, storage.FormatSize(obj.Size), obj.LastModified.Format("2006-01-02 15:04:05"))
		}
		fmt.Printf("共 %d 个文件\n", len(objects))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(imagesCmd)

	imagesCmd.Flags().StringVarP(&imagesPrefix, "prefix", "p", "", "按前缀过滤文件")
	imagesCmd.Flags().BoolVarP(&imagesStats, "stats", "s", false, "显示统计信息")
	imagesCmd.Flags().BoolVar(&imagesSync, "sync", false, "将本地图片目录上传到 MinIO 存储桶")

	imagesCmd.Example = `  # 列出所有图片
  stonehub_server images

  # 按前缀过滤
  stonehub_server images -p "icons/"

  # 显示统计信息
  stonehub_server images -s

  # 上传本地图片到 MinIO
  stonehub_server images --sync`
}
