package processchatmessage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"loan-advisor/internal/advisory/chat"
	"loan-advisor/internal/advisory/compose"
	"loan-advisor/internal/advisory/session"
	"loan-advisor/internal/common/errors"
	"loan-advisor/internal/common/logger"
	"loan-advisor/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "process-chat-message"

// ChatService is the part of chat.Service the worker drives.
type ChatService interface {
	StartSession(ctx context.Context, profile *session.UserProfile) (*session.Session, error)
	UpdateProfile(ctx context.Context, sessionID string, u session.ProfileUpdate) (*session.Session, error)
	ProcessMessage(ctx context.Context, sessionID, text string) (*compose.Reply, error)
}

type Handler struct {
	config       *Config
	chat         ChatService
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, chat ChatService, log logger.Logger) (*Handler, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		chat:         chat,
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

	h.logger.Info("Processing chat message", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	var input Input
	if err := json.Unmarshal([]byte(job.GetVariables()), &input); err != nil {
		h.failJob(ctx, client, job, errors.NewInvalidChatInputError(fmt.Sprintf("parse variables: %v", err)))
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	request, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromObject(output)
	if err != nil {
		h.failJob(ctx, client, job, errors.NewInternalError(err))
		return
	}
	if _, err := request.Send(ctx); err != nil {
		h.logger.Error("Failed to send complete job command", map[string]interface{}{
			"jobKey":    job.GetKey(),
			"sessionId": output.SessionID,
			"error":     err.Error(),
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := chat.ValidateMessage(input.Message); err != nil {
		return nil, err
	}

	sessionID := input.SessionID
	if sessionID == "" {
		sess, err := h.chat.StartSession(ctx, nil)
		if err != nil {
			return nil, err
		}
		sessionID = sess.ID
	}

	if input.Profile != nil {
		if _, err := h.chat.UpdateProfile(ctx, sessionID, *input.Profile); err != nil {
			return nil, err
		}
	}

	reply, err := h.chat.ProcessMessage(ctx, sessionID, input.Message)
	if err != nil {
		return nil, err
	}

	out := &Output{
		SessionID:        sessionID,
		Reply:            reply.Message,
		Intent:           string(reply.Intent),
		Confidence:       reply.Confidence,
		SuggestedActions: reply.SuggestedActions,
		QuickReplies:     reply.QuickReplies,
	}
	if out.SuggestedActions == nil {
		out.SuggestedActions = []compose.Action{}
	}
	if out.QuickReplies == nil {
		out.QuickReplies = []string{}
	}
	return out, nil
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := errors.Normalize(err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, stdErr)
}
