package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/treonstudio/Manajemen-Rental-V1-sub000/internal/reminders/batch"
	reminderservice "github.com/treonstudio/Manajemen-Rental-V1-sub000/internal/reminders/service"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/internal/repository"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/config"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/notify"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/aws/aws-xray-sdk-go/xray"
)

const ServiceName = "reminder-sweep"

func main() {
	timeout := flag.Duration("timeout", 5*time.Minute, "maximum duration of the sweep")
	flag.Parse()

	cfg := config.Load(ServiceName)

	// The Step Functions task token is the last argument outside local runs.
	taskToken := ""
	if !cfg.IsLocal() {
		if flag.NArg() == 0 {
			cfg.Log.Fatal("Task token is required")
		}
		taskToken = flag.Arg(flag.NArg() - 1)
	}

	if cfg.EnableTracing {
		if err := xray.Configure(xray.Config{
			DaemonAddr:     "127.0.0.1:2000",
			ServiceVersion: "1.0.0",
		}); err != nil {
			cfg.Log.Warn("Failed to configure X-Ray, using defaults", "error", err)
			if err := xray.Configure(xray.Config{}); err != nil {
				cfg.Log.Fatal("Failed to configure default X-Ray settings", "error", err)
			}
		}
		os.Setenv("AWS_XRAY_CONTEXT_MISSING", "LOG_ERROR")
	}

	var reporter batch.TaskReporter
	if !cfg.IsLocal() {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
		if err != nil {
			cfg.Log.Fatal("Failed to load AWS config", "error", err)
		}
		reporter = sfn.NewFromConfig(awsCfg)
	}

	cfg.SetStore()
	defer func() {
		if err := cfg.Store.Close(context.Background()); err != nil {
			cfg.Log.Error("Failed to close entity store", "error", err)
		}
	}()

	dispatcher, closer, err := notify.New(cfg.NotifyDriver, cfg.NotifyTopic, ServiceName, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize notification dispatcher", "error", err)
	}
	defer closer.Close()

	bookings := repository.NewBookingRepository(cfg.Store, cfg.Now)
	reminders := reminderservice.NewReminderService(repository.NewReminderRepository(cfg.Store), bookings, dispatcher, cfg)
	job := batch.NewSweepJob(reminders, reporter, taskToken, cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.EnableTracing {
		var seg *xray.Segment
		ctx, seg = xray.BeginSegment(ctx, ServiceName)
		defer seg.Close(nil)
		if err := seg.AddMetadata("timeout", timeout.String()); err != nil {
			cfg.Log.Warn("Failed to add timeout metadata", "error", err)
		}
	}

	if err := batch.RunWithTimeout(ctx, *timeout, job.Run); err != nil {
		cfg.Log.Error("Reminder sweep failed", "error", err)
		os.Exit(1)
	}
	cfg.Log.Info("Reminder sweep completed successfully")
}
