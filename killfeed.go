package main

// KillFeedMessage is one line of the kill feed
type KillFeedMessage struct {
	Message      string
	DurationLeft *float64 // nil never expires
}

// KillFeed holds recent announcements, oldest first
type KillFeed struct {
	messages []KillFeedMessage
}

// Add appends a message that expires after KillfeedDuration
func (k *KillFeed) Add(msg string) {
	d := KillfeedDuration
	k.messages = append(k.messages, KillFeedMessage{Message: msg, DurationLeft: &d})
}

// Update ages messages and drops the expired ones
func (k *KillFeed) Update(dt float64) {
	kept := k.messages[:0]
	for _, m := range k.messages {
		if m.DurationLeft != nil {
			left := *m.DurationLeft - dt
			if left <= 0 {
				continue
			}
			m.DurationLeft = &left
		}
		kept = append(kept, m)
	}
	k.messages = kept
}

// Messages returns at most KillfeedVisible of the oldest live messages
func (k *KillFeed) Messages() []string {
	n := len(k.messages)
	if n > KillfeedVisible {
		n = KillfeedVisible
	}
	out := make([]string, n)
	for i := range out {
		out[i] = k.messages[i].Message
	}
	return out
}

func (k *KillFeed) Len() int { return len(k.messages) }
