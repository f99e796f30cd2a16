package logging

import (
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// StartupLogger collects process identity, AWS resources, and configuration,
// then emits a single structured zerolog event summarising the startup
// state. One event per cold start makes it easy to see exactly how a
// process was wired when troubleshooting from logs.
type StartupLogger struct {
	name         string
	initDuration time.Duration

	s3Buckets    map[string]string
	snsTopics    map[string]string
	sqsQueues    map[string]string
	dynamoTables map[string]string
	config       map[string]string
}

// NewStartupLogger creates a StartupLogger for the given process name
// (e.g. "watermark-lambda", "shipment-server").
func NewStartupLogger(name string) *StartupLogger {
	return &StartupLogger{
		name:         name,
		s3Buckets:    make(map[string]string),
		snsTopics:    make(map[string]string),
		sqsQueues:    make(map[string]string),
		dynamoTables: make(map[string]string),
		config:       make(map[string]string),
	}
}

// S3Bucket registers an S3 bucket used by this process.
func (s *StartupLogger) S3Bucket(label, name string) *StartupLogger {
	s.s3Buckets[label] = name
	return s
}

// SNSTopic registers an SNS topic used by this process.
func (s *StartupLogger) SNSTopic(label, arn string) *StartupLogger {
	s.snsTopics[label] = arn
	return s
}

// SQSQueue registers an SQS queue used by this process.
func (s *StartupLogger) SQSQueue(label, url string) *StartupLogger {
	s.sqsQueues[label] = url
	return s
}

// DynamoTable registers a DynamoDB table used by this process.
func (s *StartupLogger) DynamoTable(label, name string) *StartupLogger {
	s.dynamoTables[label] = name
	return s
}

// Config registers a non-sensitive configuration key-value pair.
func (s *StartupLogger) Config(key, value string) *StartupLogger {
	s.config[key] = value
	return s
}

// InitDuration records how long process initialization took.
func (s *StartupLogger) InitDuration(d time.Duration) *StartupLogger {
	s.initDuration = d
	return s
}

// Log emits a single structured INFO log event with all collected information.
func (s *StartupLogger) Log() {
	evt := log.Info()

	processDict := zerolog.Dict().
		Str("name", s.name).
		Str("region", os.Getenv("AWS_REGION")).
		Str("goVersion", runtime.Version()).
		Str("arch", runtime.GOARCH).
		Str("logLevel", os.Getenv("SHIPMENT_LOG_LEVEL"))

	// Lambda identity fields are present only in the Lambda runtime.
	if fn := os.Getenv("AWS_LAMBDA_FUNCTION_NAME"); fn != "" {
		processDict = processDict.
			Str("functionName", fn).
			Str("version", os.Getenv("AWS_LAMBDA_FUNCTION_VERSION")).
			Str("memoryMB", os.Getenv("AWS_LAMBDA_FUNCTION_MEMORY_SIZE"))
	}

	evt = evt.Dict("process", processDict)

	resources := zerolog.Dict()
	hasResources := false

	if len(s.s3Buckets) > 0 {
		resources = resources.Dict("s3Buckets", dictFromMap(s.s3Buckets))
		hasResources = true
	}
	if len(s.snsTopics) > 0 {
		resources = resources.Dict("snsTopics", dictFromMap(s.snsTopics))
		hasResources = true
	}
	if len(s.sqsQueues) > 0 {
		resources = resources.Dict("sqsQueues", dictFromMap(s.sqsQueues))
		hasResources = true
	}
	if len(s.dynamoTables) > 0 {
		resources = resources.Dict("dynamoTables", dictFromMap(s.dynamoTables))
		hasResources = true
	}

	if hasResources {
		evt = evt.Dict("resources", resources)
	}

	if len(s.config) > 0 {
		evt = evt.Dict("config", dictFromMap(s.config))
	}

	if s.initDuration > 0 {
		evt = evt.Dur("initDuration", s.initDuration)
	}

	evt.Msg("Startup complete")
}

// dictFromMap converts a map[string]string into a zerolog.Event (Dict).
func dictFromMap(m map[string]string) *zerolog.Event {
	d := zerolog.Dict()
	for k, v := range m {
		d = d.Str(k, v)
	}
	return d
}
