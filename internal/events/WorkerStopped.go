package events

var WorkerStoppedTopic = "WorkerStoppedEvent"

type WorkerStopped struct {
	Email  string
	Reason string
}
