package audit

import (
	"fmt"
	"math"

	"github.com/abhisek/coursecheck/internal/course"
)

// checkDistribution compares the course's content mix against target
// percentage shares for four buckets: video, reading, labs (lab plus
// hands-on lab), and assessments (quiz, assignment, project).
func (a *Auditor) checkDistribution() {
	total := a.course.ActivityCount()
	if total == 0 {
		return
	}

	var video, reading, labs, assessments int
	for _, ac := range a.activities() {
		switch ac.act.ContentType {
		case course.ContentVideo:
			video++
		case course.ContentReading:
			reading++
		case course.ContentLab, course.ContentHOL:
			labs++
		case course.ContentQuiz, course.ContentAssignment, course.ContentProject:
			assessments++
		}
	}

	buckets := []struct {
		name   string
		count  int
		target float64
	}{
		{"video", video, a.cfg.DistributionTargets.Video},
		{"reading", reading, a.cfg.DistributionTargets.Reading},
		{"labs", labs, a.cfg.DistributionTargets.Labs},
		{"assessments", assessments, a.cfg.DistributionTargets.Assessments},
	}

	for _, b := range buckets {
		share := 100 * float64(b.count) / float64(total)
		if math.Abs(share-b.target) < a.cfg.DistributionTolerance {
			continue
		}
		direction := "High"
		fix := fmt.Sprintf("Rebalance by converting some %s content into other formats.", b.name)
		if share < b.target {
			direction = "Low"
			fix = fmt.Sprintf("Add more %s content to approach the target mix.", b.name)
		}
		a.report(Issue{
			CheckType:        CheckDistribution,
			Severity:         SeverityInfo,
			Title:            fmt.Sprintf("%s share of %s content", direction, b.name),
			Description:      fmt.Sprintf("%s makes up %.0f%% of activities; the target is %.0f%% (within %.0f points).", b.name, share, b.target, a.cfg.DistributionTolerance),
			AffectedElements: []ElementRef{refCourse(a.course)},
			SuggestedFix:     fix,
		})
	}
}
