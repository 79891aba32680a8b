package config

import (
	"os"
	"path/filepath"
	"sync"
)

// ServerlessConfig holds serverless-specific configuration
type ServerlessConfig struct {
	IsLambda     bool
	FunctionName string
	Region       string
	Stage        string
	MountPath    string
}

// Global serverless configuration
var (
	serverlessConfig *ServerlessConfig
	serverlessOnce   sync.Once
)

// GetServerlessConfig returns the serverless configuration
func GetServerlessConfig() *ServerlessConfig {
	serverlessOnce.Do(func() {
		serverlessConfig = &ServerlessConfig{
			IsLambda:     isRunningInLambda(),
			FunctionName: os.Getenv("AWS_LAMBDA_FUNCTION_NAME"),
			Region:       os.Getenv("AWS_REGION"),
			Stage:        GetEnv("STAGE", "dev"),
			MountPath:    GetEnv("EFS_MOUNT_PATH", "/mnt/efs"),
		}
	})
	return serverlessConfig
}

// isRunningInLambda detects if the application is running in AWS Lambda
func isRunningInLambda() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

// IsServerlessMode returns true if running in serverless mode
func IsServerlessMode() bool {
	return GetServerlessConfig().IsLambda
}

// GetDeploymentMode returns the current deployment mode
func GetDeploymentMode() string {
	if IsServerlessMode() {
		return "serverless"
	}
	return "server"
}

// AdaptConfigForServerless modifies configuration for serverless deployment
func AdaptConfigForServerless(config *Config) *Config {
	sc := GetServerlessConfig()
	if !sc.IsLambda {
		return config
	}
	return adaptForMount(config, sc.MountPath)
}

// adaptForMount moves the SQLite file and the document store onto the
// shared mount unless they were configured explicitly. A single writer
// connection is kept since concurrent invocations share the file.
func adaptForMount(config *Config, mountPath string) *Config {
	defaults := DefaultDatabaseConfig()
	if config.Database.ConnectionString == defaults.ConnectionString {
		config.Database.ConnectionString = filepath.Join(mountPath, "gst.db")
	}
	config.Database.MaxOpenConns = 1
	config.Database.MaxIdleConns = 1

	if config.Storage.Type == "local" && config.Storage.LocalPath == "./data/documents" {
		config.Storage.LocalPath = filepath.Join(mountPath, "documents")
	}

	config.Log.Format = "json"

	return config
}

// GetOptimizedConfig returns configuration optimized for the current deployment mode
func GetOptimizedConfig() (*Config, error) {
	config, err := Load()
	if err != nil {
		return nil, err
	}

	return AdaptConfigForServerless(config), nil
}
