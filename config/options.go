package config

// Options 加载器配置项
type Options struct {
	// Name 配置文件名（不含扩展名）
	Name string

	// Paths 配置文件搜索路径列表
	Paths []string

	// FileType 配置文件类型: "yaml" | "json"
	FileType string

	// EnvPrefix 环境变量前缀，如 SHARDKIT_LOG_LEVEL
	EnvPrefix string
}

// Option 加载器选项函数
type Option func(*Options)

// WithConfigName 设置配置文件名
func WithConfigName(name string) Option {
	return func(o *Options) { o.Name = name }
}

// WithConfigPaths 设置配置文件搜索路径
func WithConfigPaths(paths ...string) Option {
	return func(o *Options) { o.Paths = paths }
}

// WithFileType 设置配置文件类型
func WithFileType(t string) Option {
	return func(o *Options) { o.FileType = t }
}

// WithEnvPrefix 设置环境变量前缀
func WithEnvPrefix(prefix string) Option {
	return func(o *Options) { o.EnvPrefix = prefix }
}

func defaultOptions() *Options {
	return &Options{
		Name:      "shardkit",
		Paths:     []string{".", "./config"},
		FileType:  "yaml",
		EnvPrefix: "SHARDKIT",
	}
}
