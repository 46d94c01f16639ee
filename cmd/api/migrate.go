package api

import (
	// 外部依赖
	cobra "github.com/spf13/cobra"

	// 内部引用
	config "github.com/hemolink/bloodlink/internal/config"
	db "github.com/hemolink/bloodlink/pkg/middleware/db"
	migrate "github.com/hemolink/bloodlink/pkg/model/migrate"
)

func NewMigrate() *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:          "migrate",
		Long:         `api server db migrate`,
		SilenceUsage: true,
		PreRunE:      initMigrate,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Root().Context()
			if err := migrate.Table(ctx, db.DB()); err != nil {
				return err
			}
			if seed {
				return migrate.Seed(ctx, db.DB())
			}
			return nil
		},
		PostRunE: func(cmd *cobra.Command, _ []string) error {
			db.ClosePostgres(cmd.Context())
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "写入本地调试用演示数据")

	return cmd
}

func initMigrate(cmd *cobra.Command, _ []string) error {
	conf := config.Global()
	// 初始化数据库
	db.InitPostgres(cmd.Context(), &db.Config{
		Host:   conf.Database.Host,
		Port:   conf.Database.Port,
		User:   conf.Database.User,
		PW:     conf.Database.Password,
		DBName: conf.Database.Name,
		LogConf: db.LogConf{
			Level: conf.Log.LogLevel,
		},
	})

	return nil
}
