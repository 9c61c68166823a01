package commands

import (
	"fmt"
	"os"

	"photovault/pkg/app"
	"photovault/pkg/config"
	"photovault/pkg/types"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	userID  string

	// 全局应用实例，供子命令使用
	PV *app.App
)

var rootCmd = &cobra.Command{
	Use:   "pv",
	Short: "PhotoVault: pluggable photo storage (local / S3 / GCS)",
	// 【关键】PersistentPreRunE 在所有子命令执行前运行，统一组装 App
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		PV, err = app.NewApp(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to initialize photovault: %w", err)
		}
		return nil
	},
}

// scope 返回 --user 标志对应的存储 Scope
func scope() types.Scope {
	return types.Scope(userID)
}

// providerLabel 返回当前路由指向的后端名，写进目录用
func providerLabel() string {
	router := config.ViperRouter{}
	if !router.UseExternalStorage() {
		return "local"
	}
	return string(router.Provider())
}

// Execute 是入口
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pv/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&userID, "user", "u", "", "user id used as key namespace (optional)")

	rootCmd.AddCommand(putCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(statCmd)
	rootCmd.AddCommand(lsCmd)
}

func initConfig() {
	if err := config.Load(cfgFile); err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}
}
