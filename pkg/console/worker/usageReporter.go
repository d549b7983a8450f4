package worker

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gantry-io/gantry/pkg/console/model"
	"github.com/gantry-io/gantry/pkg/console/notifications"
	"github.com/gantry-io/gantry/pkg/console/store"
	"github.com/gantry-io/gantry/pkg/console/telemetry"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

type usageReporter struct {
	store                *store.Store
	notificationsManager notifications.Manager
	clock                clockwork.Clock
}

func NewUsageReporter(
	store *store.Store,
	notificationsManager notifications.Manager,
) usageReporter {
	return usageReporter{
		store:                store,
		notificationsManager: notificationsManager,
		clock:                clockwork.NewRealClock(),
	}
}

func (u *usageReporter) Run() {
	for {
		year, week := u.clock.Now().ISOWeek()
		stamp := fmt.Sprintf("%d-%02d", year, week)
		if !u.sent(stamp) {
			u.report()
			u.markSent(stamp)
		}
		u.clock.Sleep(1 * time.Hour)
	}
}

func (u *usageReporter) report() {
	oneWeekAgo := u.clock.Now().Add(-7 * time.Hour * 24).Unix()

	sessions := u.sessions(oneWeekAgo)
	runs, topTool := u.runs(oneWeekAgo)
	blocked := u.blocked(oneWeekAgo)
	feedbackCount, averageScore := u.feedback(oneWeekAgo)

	msg := notifications.UsageSummary(sessions, runs, blocked, feedbackCount, averageScore, topTool)
	u.notificationsManager.Broadcast(msg)
}

// the report week is stored, so a restart does not spam the channel
func (u *usageReporter) sent(stamp string) bool {
	kv, err := u.store.KeyValue(model.LastUsageReport)
	if err != nil {
		return false
	}
	return kv.Value == stamp
}

func (u *usageReporter) markSent(stamp string) {
	err := u.store.SaveKeyValue(&model.KeyValue{
		Key:   model.LastUsageReport,
		Value: stamp,
	})
	if err != nil {
		logrus.Warnf("cannot save usage report marker: %s", err)
	}
}

func (u *usageReporter) sessions(since int64) int {
	sessions, err := u.store.SessionsSince(since)
	if err != nil {
		logrus.Errorf("cannot get sessions: %s", err)
		return 0
	}
	return len(sessions)
}

func (u *usageReporter) runs(since int64) (int, string) {
	events, err := u.store.EventsOfType(model.AgentRunEvent, since)
	if err != nil {
		logrus.Errorf("cannot get agent run events: %s", err)
		return 0, ""
	}

	return runStats(events)
}

func (u *usageReporter) blocked(since int64) int {
	events, err := u.store.EventsOfType(model.CommandBlockedEvent, since)
	if err != nil {
		logrus.Errorf("cannot get blocked command events: %s", err)
		return 0
	}
	return len(events)
}

func (u *usageReporter) feedback(since int64) (count int, averageScore float64) {
	feedbacks, err := u.store.FeedbackSince(since)
	if err != nil {
		logrus.Errorf("cannot get feedback: %s", err)
		return 0, 0
	}

	sum := 0
	for _, f := range feedbacks {
		sum += f.Score
	}
	if len(feedbacks) > 0 {
		averageScore = float64(sum) / float64(len(feedbacks))
	}
	return len(feedbacks), averageScore
}

func runStats(events []*model.Event) (runs int, topTool string) {
	toolCount := make(map[string]int)

	for _, event := range events {
		var run telemetry.Run
		err := json.Unmarshal([]byte(event.Blob), &run)
		if err != nil {
			logrus.Warnf("cannot parse agent run event: %s", err)
			continue
		}
		runs++
		for tool, count := range run.ToolCalls {
			toolCount[tool] += count
		}
	}

	// Find the tool with the highest count
	maxCount := 0
	for tool, count := range toolCount {
		if count > maxCount {
			maxCount = count
			topTool = tool
		}
	}

	return runs, topTool
}
