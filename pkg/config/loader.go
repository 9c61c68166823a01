package config

import (
	"fmt"
	"os"
	"path/filepath"

	"photovault/pkg/storage"
	"photovault/pkg/types"

	"github.com/spf13/viper"
)

// Load 初始化 Viper 配置
// cfgFile: 可选，用户显式指定的配置文件路径
func Load(cfgFile string) error {
	// 1. 设置默认值 (Defaults)
	setDefaults()

	// 2. 配置搜索路径
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}

		// 搜索顺序：当前目录 -> ./.pv -> ~/.pv
		viper.AddConfigPath(".")
		viper.AddConfigPath(".pv")
		viper.AddConfigPath(filepath.Join(home, ".pv"))

		viper.SetConfigType("yaml")
		viper.SetConfigName("config") // 找 config.yaml
	}

	// 3. 读取环境变量 (PV_STORAGE_BUCKET 等)
	viper.SetEnvPrefix("PV")
	viper.AutomaticEnv()

	// 4. 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		// 没找到配置文件不算错 (可能全靠环境变量)，格式错才算错
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("fatal error config file: %w", err)
		}
	}

	return nil
}

func setDefaults() {
	wd, _ := os.Getwd()

	// 存储默认值：本地后端，上传目录在工作目录下
	viper.SetDefault("storage.use_external", false)
	viper.SetDefault("storage.provider", "s3")
	viper.SetDefault("storage.upload_root", filepath.Join(wd, "uploads"))
	viper.SetDefault("storage.region", "us-east-1")

	// 缓存默认关闭 (redis_url 为空)
	viper.SetDefault("cache.ttl", "24h")

	// 目录数据库：默认 sqlite 单文件，零运维
	viper.SetDefault("database.enabled", false)
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.path", filepath.Join(wd, ".pv", "photovault.db"))
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.sslmode", "disable")

	viper.SetDefault("log.level", "info")
}

// ViperRouter 实现 storage.Router：每次调用都重新读 viper。
// 这保证了"改配置就改路由"的语义 (见 storage.Router 的注释)。
type ViperRouter struct{}

var _ storage.Router = ViperRouter{}

func (ViperRouter) UseExternalStorage() bool {
	return viper.GetBool("storage.use_external")
}

func (ViperRouter) Provider() types.Provider {
	return types.ParseProvider(viper.GetString("storage.provider"))
}
