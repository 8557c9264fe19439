package state

import (
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/engine"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/event"
)

// A Record of an event
//
// Stores the event, its id and the result of applying it to the model
type EventRecord struct {
	Id     event.EventId
	Evt    event.Event
	Result engine.Result
}

func (er EventRecord) String() string {
	if er.Id == "" {
		return "init"
	}
	return er.Evt.String()
}

// True if the record holds an event. The record of the initial state is empty.
func (er EventRecord) IsEmpty() bool {
	return er.Id == ""
}

// Create a EventRecord from an event and the result of applying it.
//
// If the event is nil, create a EventRecord with zero value for all fields.
func CreateEventRecord(evt *event.Event, res engine.Result) EventRecord {
	if evt != nil {
		return EventRecord{
			Id:     evt.Id(),
			Evt:    *evt,
			Result: res,
		}
	}
	return EventRecord{}
}
