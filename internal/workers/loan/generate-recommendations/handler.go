package generaterecommendations

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"loan-advisor/internal/analytics"
	"loan-advisor/internal/common/errors"
	"loan-advisor/internal/common/logger"
	"loan-advisor/internal/common/metrics"
	"loan-advisor/internal/loan/recommend"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "generate-loan-recommendations"

type Handler struct {
	config       *Config
	engine       recommend.Recommender
	tracker      *analytics.Tracker
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, engine recommend.Recommender, tracker *analytics.Tracker, log logger.Logger) (*Handler, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		engine:       engine,
		tracker:      tracker,
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("Processing recommendation request", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	input, err := h.parseInput(job)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	if err := h.completeJob(ctx, client, job, output); err != nil {
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	var input Input
	if err := json.Unmarshal([]byte(job.GetVariables()), &input); err != nil {
		return nil, errors.NewInvalidProfileAnswersError(fmt.Sprintf("parse variables: %v", err))
	}
	if err := input.Answers.Validate(); err != nil {
		return nil, err
	}
	return &input, nil
}

// Execute ranks the catalog for the questionnaire answers. An empty list is
// a normal outcome and completes the job.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	recs := h.engine.Recommend(ctx, input.Answers)

	metrics.RecommendationsGenerated.Inc()
	output := &Output{
		Recommendations:     recs,
		RecommendationCount: len(recs),
		HasRecommendations:  len(recs) > 0,
	}
	if len(recs) == 0 {
		metrics.RecommendationsEmpty.Inc()
	} else {
		output.TopProductID = recs[0].Product.ID
		output.TopEstimatedRate = recs[0].EstimatedRate
	}

	if input.SessionID != "" {
		h.tracker.QuizCompleted(input.SessionID, input.Answers)
		h.tracker.ResultsViewed(input.SessionID, recs)
	}

	h.logger.Info("Recommendations generated", map[string]interface{}{
		"sessionId":    input.SessionID,
		"productCount": len(recs),
		"topProductId": output.TopProductID,
	})
	return output, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) error {
	request, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromObject(output)
	if err != nil {
		h.logger.Error("Failed to create complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		h.failJob(ctx, client, job, errors.NewInternalError(err))
		return err
	}

	if _, err := request.Send(ctx); err != nil {
		h.logger.Error("Failed to send complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return err
	}

	h.logger.Info("Job completed successfully", map[string]interface{}{
		"jobKey":              job.GetKey(),
		"recommendationCount": output.RecommendationCount,
	})
	return nil
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := errors.Normalize(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, stdErr)
}
