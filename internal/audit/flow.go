package audit

import "fmt"

// checkFlow verifies the course's structural flow: no empty containers, no
// dangling prerequisite references, and no cycles in the prerequisite graph.
func (a *Auditor) checkFlow() {
	for mi := range a.course.Modules {
		m := &a.course.Modules[mi]
		if len(m.Lessons) == 0 {
			a.report(Issue{
				CheckType:        CheckFlow,
				Severity:         SeverityError,
				Title:            "Empty module",
				Description:      fmt.Sprintf("Module %q contains no lessons.", m.Title),
				AffectedElements: []ElementRef{refModule(m)},
				SuggestedFix:     "Add at least one lesson to the module, or remove it.",
			})
		}
		for li := range m.Lessons {
			l := &m.Lessons[li]
			if len(l.Activities) == 0 {
				a.report(Issue{
					CheckType:        CheckFlow,
					Severity:         SeverityWarning,
					Title:            "Empty lesson",
					Description:      fmt.Sprintf("Lesson %q in module %q contains no activities.", l.Title, m.Title),
					AffectedElements: []ElementRef{refLesson(l), refModule(m)},
					SuggestedFix:     "Add at least one activity to the lesson, or remove it.",
				})
			}
		}
	}

	acts := a.activities()
	idx := a.activityIndex()

	// Dangling prerequisite references.
	for _, ac := range acts {
		for _, pid := range ac.act.PrerequisiteIDs {
			if _, ok := idx[pid]; !ok {
				a.report(Issue{
					CheckType:        CheckFlow,
					Severity:         SeverityError,
					Title:            "Unknown prerequisite",
					Description:      fmt.Sprintf("Activity %q lists prerequisite %q, which does not exist in this course.", ac.act.Title, pid),
					AffectedElements: []ElementRef{refActivity(ac.act)},
					SuggestedFix:     "Remove the stale prerequisite ID or point it at an existing activity.",
				})
			}
		}
	}

	// Cycle detection: DFS over the prerequisite graph with a visited set and
	// a recursion-stack path. A back-edge into the path marks every node from
	// that point on as part of a cycle.
	const (
		unvisited = iota
		inPath
		done
	)
	state := make(map[string]int, len(acts))
	onCycle := make(map[string]bool)
	var path []string

	var visit func(id string)
	visit = func(id string) {
		state[id] = inPath
		path = append(path, id)
		for _, pid := range idx[id].act.PrerequisiteIDs {
			if _, ok := idx[pid]; !ok {
				continue // dangling, already reported
			}
			switch state[pid] {
			case inPath:
				for i := len(path) - 1; i >= 0; i-- {
					onCycle[path[i]] = true
					if path[i] == pid {
						break
					}
				}
			case unvisited:
				visit(pid)
			}
		}
		path = path[:len(path)-1]
		state[id] = done
	}

	for _, ac := range acts {
		if state[ac.act.ID] == unvisited {
			visit(ac.act.ID)
		}
	}

	// One ERROR per activity on a cycle, in tree order.
	for _, ac := range acts {
		if !onCycle[ac.act.ID] {
			continue
		}
		a.report(Issue{
			CheckType:        CheckFlow,
			Severity:         SeverityError,
			Title:            "Prerequisite cycle",
			Description:      fmt.Sprintf("Activity %q participates in a prerequisite cycle: learners can never satisfy its requirements.", ac.act.Title),
			AffectedElements: []ElementRef{refActivity(ac.act)},
			SuggestedFix:     "Break the cycle by removing one of the prerequisite links.",
		})
	}
}
