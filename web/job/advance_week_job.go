package job

import (
	"time"

	"github.com/medident/linea/logger"
	"github.com/medident/linea/web/service"
)

// AdvanceWeekJob moves verified patients along the treatment timeline once a
// day, based on their treatment start date.
type AdvanceWeekJob struct {
	patientService service.PatientService
}

func NewAdvanceWeekJob() *AdvanceWeekJob {
	return new(AdvanceWeekJob)
}

func (j *AdvanceWeekJob) Run() {
	updated, err := j.patientService.AdvanceWeeks(time.Now())
	if err != nil {
		logger.Warning("advance week job failed:", err)
		return
	}
	if updated > 0 {
		logger.Infof("advance week job: %d patient(s) moved forward", updated)
	}
}
