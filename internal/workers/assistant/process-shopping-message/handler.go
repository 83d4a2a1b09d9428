// internal/workers/assistant/process-shopping-message/handler.go
package processshoppingmessage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"shopping-assistant/internal/assistant"
	"shopping-assistant/internal/common/config"
	"shopping-assistant/internal/common/errors"
	"shopping-assistant/internal/common/logger"
	"shopping-assistant/internal/common/metrics"
	"shopping-assistant/internal/common/validation"
	"shopping-assistant/internal/models"
	"shopping-assistant/pkg/registry"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = registry.TaskProcessShoppingMessage

// MessageProcessor is satisfied by *assistant.Session.
type MessageProcessor interface {
	ProcessMessage(ctx context.Context, text string) models.MessageResult
}

// JobRecorder receives one call per finished job.
type JobRecorder interface {
	RecordJobProcessed(ctx context.Context, taskType, status string)
}

type Handler struct {
	config       *Config
	logger       logger.Logger
	assistant    MessageProcessor
	validator    *validation.Validator
	errorHandler *errors.ErrorHandler
	recorder     JobRecorder
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	Assistant    MessageProcessor
	Registry     *registry.ActivityRegistry
	Recorder     JobRecorder
	Logger       logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if opts.Assistant == nil {
		return nil, fmt.Errorf("%s: assistant is required", TaskType)
	}

	reg := opts.Registry
	if reg == nil {
		reg = registry.Default()
	}
	activity, ok := reg.Find(TaskType)
	if !ok {
		return nil, fmt.Errorf("%s: not present in activity registry", TaskType)
	}
	validator, err := validation.NewValidator(activity.InputSchema)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", TaskType, err)
	}

	loggerInstance := opts.Logger
	if loggerInstance == nil {
		loggerInstance = logger.NewStructured("info", "json", "stdout")
	}
	loggerInstance = loggerInstance.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config:       workerConfig,
		logger:       loggerInstance,
		assistant:    opts.Assistant,
		validator:    validator,
		errorHandler: errors.NewErrorHandler(loggerInstance),
		recorder:     opts.Recorder,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	input, err := h.parseInput(job)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	if err := h.completeJob(ctx, client, job, output); err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	h.record(ctx, "completed")
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	if result := h.validator.ValidateJSON(job.GetVariables()); !result.Valid {
		return nil, result.Err()
	}

	var input Input
	if err := json.Unmarshal([]byte(job.GetVariables()), &input); err != nil {
		return nil, errors.NewInputValidationError(err.Error())
	}
	return &input, nil
}

// Execute answers one shopper message. A panic inside the assistant yields the apology reply.
func (h *Handler) Execute(ctx context.Context, input *Input) (output *Output, err error) {
	if input == nil || strings.TrimSpace(input.Message) == "" {
		return nil, errors.NewInputValidationError("message must not be blank")
	}

	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("message processing panicked", map[string]interface{}{"panic": fmt.Sprint(rec)})
			output, err = toOutput(assistant.ApologyResult()), nil
		}
	}()

	return toOutput(h.assistant.ProcessMessage(ctx, input.Message)), nil
}

func toOutput(res models.MessageResult) *Output {
	return &Output{Reply: res.Reply, Intent: res.Intent, Suggestions: res.Suggestions}
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) error {
	request, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromObject(output)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if _, err := request.Send(ctx); err != nil {
		return errors.NewWorkflowEngineUnavailableError(err)
	}

	h.logger.Info("job completed", map[string]interface{}{
		"jobKey":          job.GetKey(),
		"intent":          output.Intent,
		"suggestionCount": len(output.Suggestions.Suggestions),
	})
	return nil
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := errors.Normalize(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.record(ctx, "failed")
	h.errorHandler.HandleJobError(ctx, client, job, stdErr)
}

func (h *Handler) record(ctx context.Context, status string) {
	if h.recorder != nil {
		h.recorder.RecordJobProcessed(ctx, TaskType, status)
	}
}

func (h *Handler) IsEnabled() bool {
	return h.config.Enabled
}

func (h *Handler) GetConfig() *Config {
	return h.config
}
