/*
 * @Description: AWS S3 导入源（使用aws-sdk-go-v2），兼容自定义 endpoint 的 S3 协议存储
 * @Author: 安知鱼
 * @Date: 2025-09-28 19:00:00
 * @LastEditTime: 2025-10-13 15:41:27
 * @LastEditors: 安知鱼
 */
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/anzhiyu-c/anime-explorer/pkg/constant"
)

const s3Scheme = "s3://"

// S3Options S3 连接参数，AccessKey 为空时使用默认凭证链
type S3Options struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// objectGetter 只需要 GetObject，便于测试替换
type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source 从 s3://bucket/key 读取导入文件
type S3Source struct {
	client objectGetter
}

// NewS3Source 创建 S3 客户端
func NewS3Source(ctx context.Context, opts S3Options) (*S3Source, error) {
	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"",
		)))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("创建AWS S3配置失败: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true // 对于自定义endpoint通常需要path-style
		}
	})

	log.Printf("[AWS S3] 成功创建导入源客户端 - 区域: %s", region)
	return &S3Source{client: client}, nil
}

func (s *S3Source) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return nil, err
	}

	output, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		var noBucket *types.NoSuchBucket
		if errors.As(err, &noKey) || errors.As(err, &noBucket) {
			return nil, fmt.Errorf("%s: %w", uri, constant.ErrSourceNotFound)
		}
		return nil, fmt.Errorf("从AWS S3获取文件失败: %w", err)
	}
	return output.Body, nil
}

// ParseS3URI 解析 s3://bucket/key
func ParseS3URI(uri string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(uri, s3Scheme)
	if !ok {
		return "", "", fmt.Errorf("%s: %w", uri, constant.ErrSourceUnsupported)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	key = strings.TrimPrefix(key, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("S3 地址需要形如 s3://bucket/key，得到 %q: %w", uri, constant.ErrBadRequest)
	}
	return bucket, key, nil
}
