package appvol

import "sync"

type notification struct {
	title   string
	message string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (rn *recordingNotifier) Notify(title string, message string) {
	rn.mu.Lock()
	defer rn.mu.Unlock()

	rn.sent = append(rn.sent, notification{title: title, message: message})
}

func (rn *recordingNotifier) notifications() []notification {
	rn.mu.Lock()
	defer rn.mu.Unlock()

	return append([]notification(nil), rn.sent...)
}

func (rn *recordingNotifier) titles() []string {
	titles := []string{}
	for _, n := range rn.notifications() {
		titles = append(titles, n.title)
	}

	return titles
}
