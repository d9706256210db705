package config

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config 是训练/评估 run 的配置结构（支持 YAML/JSON）。
type Config struct {
	// Postgres 批量数据源
	Postgres struct {
		DSN string `yaml:"dsn" json:"dsn"`
	} `yaml:"postgres" json:"postgres"`

	// Redis 快照/榜单存储（可选，缺省用文件存储）
	Redis struct {
		Addr string `yaml:"addr" json:"addr"`
		DB   int    `yaml:"db" json:"db"`
	} `yaml:"redis" json:"redis"`

	// Feast 在线特征服务（可选）
	Feast struct {
		Host    string `yaml:"host" json:"host"`
		Port    int    `yaml:"port" json:"port"`
		Project string `yaml:"project" json:"project"`
	} `yaml:"feast" json:"feast"`

	// ArtifactDir 文件存储的制品目录
	ArtifactDir string `yaml:"artifact_dir" json:"artifact_dir"`

	// Models 各模型的训练参数；零值使用模型默认
	Models struct {
		Association struct {
			MinSupport int `yaml:"min_support" json:"min_support"`
		} `yaml:"association" json:"association"`
		CategoryCF struct {
			NeighborK        int `yaml:"neighbor_k" json:"neighbor_k"`
			TopCategories    int `yaml:"top_categories" json:"top_categories"`
			ItemsPerCategory int `yaml:"items_per_category" json:"items_per_category"`
			MinInteractions  int `yaml:"min_interactions" json:"min_interactions"`
		} `yaml:"category_cf" json:"category_cf"`
		Popularity struct {
			TopN        int `yaml:"top_n" json:"top_n"`
			PerCategory int `yaml:"per_category" json:"per_category"`
		} `yaml:"popularity" json:"popularity"`
		Trending struct {
			TopN        int     `yaml:"top_n" json:"top_n"`
			PerCategory int     `yaml:"per_category" json:"per_category"`
			MinScore    float64 `yaml:"min_score" json:"min_score"`
		} `yaml:"trending" json:"trending"`
	} `yaml:"models" json:"models"`

	// Train 并发与超时
	Train struct {
		MaxConcurrent  int `yaml:"max_concurrent" json:"max_concurrent"`
		TimeoutSeconds int `yaml:"timeout_seconds" json:"timeout_seconds"`
	} `yaml:"train" json:"train"`

	// Eval 离线评估参数
	Eval struct {
		TopN        int     `yaml:"top_n" json:"top_n"`
		CatalogSize int     `yaml:"catalog_size" json:"catalog_size"`
		Alpha       float64 `yaml:"alpha" json:"alpha"`
	} `yaml:"eval" json:"eval"`
}

// LoadFromYAML 从 YAML 文件加载配置。
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	return &cfg, nil
}

// LoadFromJSON 从 JSON 文件加载配置。
func LoadFromJSON(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	return &cfg, nil
}
