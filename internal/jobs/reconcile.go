package jobs

import (
	"log"
	"time"

	"github.com/admitflow/admitflow-backend/internal/services"
)

// ReconcileJob periodically folds counselor edits in the Working sheet
// back into the database mirror
type ReconcileJob struct {
	service   *services.ReconcileService
	interval  time.Duration
	isRunning bool
}

// NewReconcileJob creates a new reconcile job scheduler
func NewReconcileJob(service *services.ReconcileService, interval time.Duration) *ReconcileJob {
	return &ReconcileJob{
		service:  service,
		interval: interval,
	}
}

// Start begins the periodic reconciliation loop
func (j *ReconcileJob) Start() {
	if j.isRunning {
		log.Println("Reconcile job already running")
		return
	}

	j.isRunning = true
	log.Printf("Starting reconcile job (every %v)...", j.interval)

	go j.loop()
}

// Stop halts the loop after the current sleep
func (j *ReconcileJob) Stop() {
	j.isRunning = false
	log.Println("Stopping reconcile job...")
}

func (j *ReconcileJob) loop() {
	for j.isRunning {
		time.Sleep(j.interval)

		if !j.isRunning {
			break
		}

		if _, err := j.service.Run(); err != nil {
			log.Printf("❌ Scheduled reconciliation failed: %v", err)
		}
	}
}
