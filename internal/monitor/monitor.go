package monitor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/schollz/progressbar/v3"

	"github.com/fieldvision/fieldvision-api-poc/internal/delivery"
	"github.com/fieldvision/fieldvision-api-poc/internal/fields"
	"github.com/fieldvision/fieldvision-api-poc/internal/notification"
	"github.com/fieldvision/fieldvision-api-poc/internal/recommendation"
	"github.com/fieldvision/fieldvision-api-poc/internal/sentinel"
	"github.com/fieldvision/fieldvision-api-poc/internal/utils"
)

// monitorWorkers bounds concurrent field analyses, which each hold an open
// imagery request.
const monitorWorkers = 8

// FieldAlert carries the urgent findings of one field.
type FieldAlert struct {
	Farm            string
	FieldID         string
	Recommendations []recommendation.Recommendation
}

// Result summarizes one farm monitoring run.
type Result struct {
	Analyzed int
	NoData   int
	Alerts   []FieldAlert
	Errors   []error
}

// MonitorFarm analyzes every field of a farm on a worker pool and sends a
// Discord notification with the urgent findings. Fields without imagery are
// counted, not treated as failures.
func MonitorFarm(ctx context.Context, client *sentinel.Client, farm string, indexType sentinel.IndexType, endDate time.Time) (*Result, error) {
	farmFields, err := fields.LoadFarm(farm)
	if err != nil {
		return nil, err
	}

	fmt.Printf("Monitoring farm %s: %d fields\n", farm, len(farmFields))
	bar := progressbar.Default(int64(len(farmFields)))
	wp := workerpool.New(monitorWorkers)

	result := &Result{}
	for _, field := range farmFields {
		field := field
		wp.Submit(func() {
			report, err := delivery.AnalyzeField(ctx, client, field, indexType, endDate)

			utils.ExecuteWithMutex(func() {
				defer bar.Add(1)
				if err != nil {
					if errors.Is(err, delivery.ErrNoImagery) {
						result.NoData++
						return
					}
					result.Errors = append(result.Errors, fmt.Errorf("field %s: %w", field.ID, err))
					return
				}

				result.Analyzed++
				if urgent := urgentRecommendations(report.Recommendations); len(urgent) > 0 {
					result.Alerts = append(result.Alerts, FieldAlert{
						Farm:            farm,
						FieldID:         field.ID,
						Recommendations: urgent,
					})
				}
			})
		})
	}
	wp.StopWait()

	notify(farm, result)
	return result, nil
}

func urgentRecommendations(recommendations []recommendation.Recommendation) []recommendation.Recommendation {
	var urgent []recommendation.Recommendation
	for _, rec := range recommendations {
		if rec.Priority == 1 {
			urgent = append(urgent, rec)
		}
	}
	return urgent
}

func notify(farm string, result *Result) {
	if len(result.Errors) > 0 {
		var sb strings.Builder
		for _, err := range result.Errors {
			sb.WriteString(fmt.Sprintf("- %s\n", err.Error()))
		}
		if err := notification.SendDiscordErrorNotification(fmt.Sprintf("FieldVision CLI\n\nErrors while monitoring farm %s:\n%s", farm, sb.String())); err != nil {
			fmt.Printf("Failed to send notification: %s\n", err.Error())
		}
		return
	}

	message := fmt.Sprintf("FieldVision CLI\n\nFarm %s monitored.\n - Fields analyzed: %d\n - Fields without imagery: %d\n - Urgent alerts: %d",
		farm, result.Analyzed, result.NoData, len(result.Alerts))
	for _, alert := range result.Alerts {
		for _, rec := range alert.Recommendations {
			message += fmt.Sprintf("\n - [%s] %s: %s", alert.FieldID, rec.Zone, rec.Message)
		}
	}
	if err := notification.SendDiscordSuccessNotification(message); err != nil {
		fmt.Printf("Failed to send notification: %s\n", err.Error())
	}
}
