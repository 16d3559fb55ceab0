// Package batch runs the overdue reminder sweep outside the request path,
// reporting the outcome to a Step Functions task token.
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/treonstudio/Manajemen-Rental-V1-sub000/internal/reminders/service"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/aws/aws-xray-sdk-go/xray"
)

// TaskReporter is the subset of the Step Functions client the job needs.
type TaskReporter interface {
	SendTaskSuccess(ctx context.Context, params *sfn.SendTaskSuccessInput, optFns ...func(*sfn.Options)) (*sfn.SendTaskSuccessOutput, error)
	SendTaskFailure(ctx context.Context, params *sfn.SendTaskFailureInput, optFns ...func(*sfn.Options)) (*sfn.SendTaskFailureOutput, error)
}

type Result struct {
	Created  int       `json:"created"`
	Duration string    `json:"duration"`
	RanAt    time.Time `json:"ran_at"`
}

type SweepJob struct {
	reminders service.ReminderService
	reporter  TaskReporter
	taskToken string
	log       *logger.Logger
}

// NewSweepJob builds the job. A nil reporter or empty task token skips the
// Step Functions callback, as in local runs.
func NewSweepJob(reminders service.ReminderService, reporter TaskReporter, taskToken string, log *logger.Logger) *SweepJob {
	return &SweepJob{
		reminders: reminders,
		reporter:  reporter,
		taskToken: taskToken,
		log:       log,
	}
}

func (j *SweepJob) Run(ctx context.Context) error {
	ctx, seg := xray.BeginSubsegment(ctx, "SweepJob.Run")
	if seg != nil {
		defer seg.Close(nil)
	}

	start := time.Now()
	created, err := j.reminders.Sweep(ctx)
	if err != nil {
		j.reportFailure(ctx, err)
		return fmt.Errorf("overdue sweep failed: %w", err)
	}

	result := Result{
		Created:  created,
		Duration: time.Since(start).String(),
		RanAt:    start.UTC(),
	}
	if seg != nil {
		if err := seg.AddMetadata("created", created); err != nil {
			j.log.Warn("Failed to add created metadata", "error", err)
		}
	}

	if err := j.reportSuccess(ctx, result); err != nil {
		return fmt.Errorf("failed to send task success: %w", err)
	}

	j.log.Info("Overdue sweep completed", "created", created, "duration", result.Duration)
	return nil
}

func (j *SweepJob) reportSuccess(ctx context.Context, result Result) error {
	if j.reporter == nil || j.taskToken == "" {
		j.log.Info("No task token, skipping Step Functions task success")
		return nil
	}

	output, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal sweep result: %w", err)
	}

	_, err = j.reporter.SendTaskSuccess(ctx, &sfn.SendTaskSuccessInput{
		TaskToken: aws.String(j.taskToken),
		Output:    aws.String(string(output)),
	})
	return err
}

func (j *SweepJob) reportFailure(ctx context.Context, cause error) {
	if j.reporter == nil || j.taskToken == "" {
		return
	}

	_, err := j.reporter.SendTaskFailure(ctx, &sfn.SendTaskFailureInput{
		TaskToken: aws.String(j.taskToken),
		Error:     aws.String("SweepFailed"),
		Cause:     aws.String(cause.Error()),
	})
	if err != nil {
		j.log.Error("Failed to send task failure", "error", err)
	}
}

// RunWithTimeout runs fn and gives up once timeout elapses.
func RunWithTimeout(ctx context.Context, timeout time.Duration, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- fn(ctx)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		return fmt.Errorf("batch process timed out after %v", timeout)
	}
}
