package main

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"gst-invoice-api/internal/config"
	"gst-invoice-api/pkg/lambda"
)

var manager = lambda.GetConnectionManager()

func init() {
	cfg, err := config.GetOptimizedConfig()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	if err := manager.Initialize(cfg); err != nil {
		panic("Failed to initialize container: " + err.Error())
	}
}

func handler(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	req, err := lambda.FromAPIGateway(event)
	if err != nil {
		return lambda.ErrorResponse(http.StatusBadRequest, "Invalid request body").ToAPIGateway(), nil
	}

	resp, err := manager.Handle(ctx, req)
	if err != nil {
		logrus.WithError(err).WithField("path", event.Path).Error("Request failed")
		return lambda.ErrorResponse(http.StatusInternalServerError, "Internal server error").ToAPIGateway(), nil
	}

	return resp.ToAPIGateway(), nil
}

func main() {
	awslambda.Start(handler)
}
