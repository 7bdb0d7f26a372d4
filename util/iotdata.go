package util

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/iotdataplane"
)

type iotDataAPI interface {
	Publish(ctx context.Context, params *iotdataplane.PublishInput, optFns ...func(*iotdataplane.Options)) (*iotdataplane.PublishOutput, error)
}

// IoTDataPublisher publishes over the AWS IoT data plane HTTPS API.
type IoTDataPublisher struct {
	api iotDataAPI
}

// NewIoTDataPublisher uses the iot_endpoint and iot_region settings and the
// default AWS credential chain.
func NewIoTDataPublisher(ctx context.Context) (*IoTDataPublisher, error) {
	endpoint := strings.ToLower(strings.TrimSpace(Config.GetString("iot_endpoint")))
	if endpoint == "" {
		return nil, fmt.Errorf("iot_endpoint is not set")
	}
	if !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(Config.GetString("iot_region")))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	client := iotdataplane.NewFromConfig(cfg, func(o *iotdataplane.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})
	Logger.Debug().Msgf("iot data plane endpoint %s in %s", endpoint, cfg.Region)
	return &IoTDataPublisher{api: client}, nil
}

func (p *IoTDataPublisher) Publish(ctx context.Context, topic string, qos byte, payload []byte) error {
	_, err := p.api.Publish(ctx, &iotdataplane.PublishInput{
		Topic:   aws.String(topic),
		Qos:     int32(qos),
		Payload: payload,
	})
	if err != nil {
		return fmt.Errorf("publishing to %s: %w", topic, err)
	}
	return nil
}
