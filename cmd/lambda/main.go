package main

import (
	"gemini-relay/config"
	"gemini-relay/lambda"
	"gemini-relay/logging"
	"gemini-relay/relay"

	awslambda "github.com/aws/aws-lambda-go/lambda"
)

var fn *lambda.Handler

func init() {
	cfg, err := config.LoadConfig("")
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logging.InitLogger(logging.ParseLevel(cfg.LogLevel))
	logging.SetFormat(cfg.LogFormat)

	fn = lambda.NewHandler(relay.FromConfig(cfg))
}

func main() {
	awslambda.Start(fn.Handle)
}
