package config

import (
	"path"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/kochabx/passport/core/tag"
	"github.com/kochabx/passport/core/validator"
	"github.com/kochabx/passport/errors"
)

// FileLoader 从文件加载配置，环境变量优先于文件
type FileLoader struct {
	viper    *viper.Viper
	validate *validator.Validator
	name     string
	paths    []string
}

// NewFileLoader 创建文件加载器，配置类型由扩展名决定
func NewFileLoader(name string, paths []string, envPrefix string, v *viper.Viper, validate *validator.Validator) *FileLoader {
	configType := strings.TrimPrefix(path.Ext(name), ".")

	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName(name)
	v.SetConfigType(configType)

	if envPrefix != "" {
		v.SetEnvPrefix(envPrefix)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &FileLoader{
		viper:    v,
		validate: validate,
		name:     name,
		paths:    paths,
	}
}

// Load 依次执行：默认值、读取文件、反序列化、再次填充默认值、校验
// 第二次填充覆盖文件中新出现的指针结构体
func (l *FileLoader) Load(target any) error {
	if err := tag.ApplyDefaults(target); err != nil {
		return errors.Wrap(err, 500, "failed to apply defaults")
	}

	if err := l.viper.ReadInConfig(); err != nil {
		return errors.Wrap(err, 404, "config file not found")
	}

	if err := l.viper.Unmarshal(target); err != nil {
		return errors.Wrap(err, 500, "config parse error")
	}

	if err := tag.ApplyDefaults(target); err != nil {
		return errors.Wrap(err, 500, "failed to apply defaults")
	}

	if l.validate != nil {
		if err := l.validate.Struct(target); err != nil {
			return errors.Wrap(err, 400, "config validation failed")
		}
	}

	return nil
}

// Watch 监听配置文件变化
func (l *FileLoader) Watch(callback func()) error {
	l.viper.OnConfigChange(func(fsnotify.Event) {
		if callback != nil {
			callback()
		}
	})
	l.viper.WatchConfig()
	return nil
}
