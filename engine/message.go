package engine

import (
	"fmt"

	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/document"
	"github.com/leiding01/6CCS3PRJ-Lei-Ding-Distributed-Mutex-Explorer/event"
)

type MessageKind int

const (
	RequestMessage MessageKind = iota + 1
	ReplyMessage
)

func (k MessageKind) String() string {
	if k == ReplyMessage {
		return document.MessageReply
	}
	return document.MessageRequest
}

// A Ricart-Agrawala message in flight
type Message struct {
	ID        int
	Kind      MessageKind
	From      int
	To        int
	Timestamp int
}

func (m Message) String() string {
	return fmt.Sprintf("#%v %v %v->%v ts=%v", m.ID, m.Kind, event.ProcessName(m.From), event.ProcessName(m.To), m.Timestamp)
}

// The FIFO network used by Ricart-Agrawala.
//
// Messages are delivered in the order they were sent. Each message leaves the queue exactly once,
// either delivered or dropped.
type network struct {
	queue         []Message
	nextMessageID int

	// One-shot flag. The next send attempt is dropped before it reaches the queue
	dropNextSend bool
}

func newNetwork() *network {
	return &network{
		queue:         make([]Message, 0),
		nextMessageID: 1,
	}
}

// Create a message and add it to the queue.
//
// Returns the message and false if the message was lost on send.
func (n *network) send(kind MessageKind, from, to, ts int) (Message, bool) {
	msg := Message{
		ID:        n.nextMessageID,
		Kind:      kind,
		From:      from,
		To:        to,
		Timestamp: ts,
	}
	n.nextMessageID++
	if n.dropNextSend {
		n.dropNextSend = false
		return msg, false
	}
	n.queue = append(n.queue, msg)
	return msg, true
}

// Remove the head of the queue. Returns false if the queue is empty
func (n *network) pop() (Message, bool) {
	if len(n.queue) == 0 {
		return Message{}, false
	}
	msg := n.queue[0]
	n.queue = n.queue[1:]
	return msg, true
}

func (n *network) clone() *network {
	c := *n
	c.queue = append(make([]Message, 0, len(n.queue)), n.queue...)
	return &c
}
