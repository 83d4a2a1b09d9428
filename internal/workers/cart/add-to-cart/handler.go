// internal/workers/cart/add-to-cart/handler.go
package addtocart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

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

const TaskType = registry.TaskAddToCart

// CartService is satisfied by *cart.Service.
type CartService interface {
	AddItem(ctx context.Context, cartID string, productID int) (*models.Cart, string, error)
	Summarize(c *models.Cart) models.CartSummary
}

type JobRecorder interface {
	RecordJobProcessed(ctx context.Context, taskType, status string)
}

type Handler struct {
	config       *Config
	logger       logger.Logger
	carts        CartService
	validator    *validation.Validator
	errorHandler *errors.ErrorHandler
	recorder     JobRecorder
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	Carts        CartService
	Registry     *registry.ActivityRegistry
	Recorder     JobRecorder
	Logger       logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if opts.Carts == nil {
		return nil, fmt.Errorf("%s: cart service is required", TaskType)
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

	if code := string(errors.ErrCodeProductNotFound); !activity.DeclaresError(code) {
		loggerInstance.Warn("activity does not declare an error code this worker throws", map[string]interface{}{
			"errorCode": code,
		})
	}

	return &Handler{
		config:       workerConfig,
		logger:       loggerInstance,
		carts:        opts.Carts,
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

// Execute adds one unit of the product. PRODUCT_NOT_FOUND surfaces as a BPMN
// error so the process can route to its own boundary event.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || input.CartID == "" {
		return nil, errors.NewInputValidationError("cartId is required")
	}

	c, confirmation, err := h.carts.AddItem(ctx, input.CartID, input.ProductID)
	if err != nil {
		return nil, err
	}

	return &Output{
		Cart:         c,
		Summary:      h.carts.Summarize(c),
		Confirmation: confirmation,
	}, nil
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
		"jobKey":    job.GetKey(),
		"cartId":    output.Cart.ID,
		"itemCount": output.Summary.ItemCount,
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
