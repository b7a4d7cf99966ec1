package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	AWS    AWSConfig
	App    AppConfig
}

type ServerConfig struct {
	Host string
	Port string
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	BucketName      string
	TableName       string
}

type AppConfig struct {
	MaxUploadSize int64
	AllowedExts   []string
	// DefaultUploader is recorded on photos when no uploader name is given.
	DefaultUploader string
	// AllowBlobOnlyUploads keeps uploads working (blob stored, metadata
	// skipped) when the catalog table is missing. When false, uploads are
	// rejected in that state.
	AllowBlobOnlyUploads bool
}

func Load() (*Config, error) {
	viper.SetDefault("SERVER_HOST", "localhost")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("AWS_REGION", "eu-west-2")
	viper.SetDefault("AWS_ACCESS_KEY_ID", "")
	viper.SetDefault("AWS_SECRET_ACCESS_KEY", "")
	viper.SetDefault("AWS_ENDPOINT", "")
	viper.SetDefault("S3_BUCKET_NAME", "family-photos")
	viper.SetDefault("DYNAMODB_TABLE_NAME", "FamilyPhotoMetadata")
	viper.SetDefault("APP_MAX_UPLOAD_SIZE", 10*1024*1024) // 10MB
	viper.SetDefault("APP_ALLOWED_FORMATS", []string{".jpg", ".jpeg", ".png", ".gif"})
	viper.SetDefault("APP_DEFAULT_UPLOADER", "anonymous")
	viper.SetDefault("APP_ALLOW_BLOB_ONLY_UPLOADS", true)

	viper.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("SERVER_HOST"),
			Port: viper.GetString("SERVER_PORT"),
		},
		AWS: AWSConfig{
			Region:          viper.GetString("AWS_REGION"),
			AccessKeyID:     viper.GetString("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: viper.GetString("AWS_SECRET_ACCESS_KEY"),
			Endpoint:        viper.GetString("AWS_ENDPOINT"),
			BucketName:      viper.GetString("S3_BUCKET_NAME"),
			TableName:       viper.GetString("DYNAMODB_TABLE_NAME"),
		},
		App: AppConfig{
			MaxUploadSize:        viper.GetInt64("APP_MAX_UPLOAD_SIZE"),
			AllowedExts:          viper.GetStringSlice("APP_ALLOWED_FORMATS"),
			DefaultUploader:      viper.GetString("APP_DEFAULT_UPLOADER"),
			AllowBlobOnlyUploads: viper.GetBool("APP_ALLOW_BLOB_ONLY_UPLOADS"),
		},
	}

	return cfg, nil
}
