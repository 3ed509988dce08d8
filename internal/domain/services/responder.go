package services

import (
	"math/rand"
	"strings"
	"sync"

	"scambait-lab/internal/domain/models"
)

// Responder generates believable victim replies to keep the scammer
// engaged. Replies are chosen from staged template sets keyed off the
// conversation depth; the PRNG is injectable so integration tests can
// seed it for deterministic output.
type Responder struct {
	mu  sync.Mutex
	rng *rand.Rand

	neutral     []string
	initial     []string
	curious     []string
	compliance  []string
	hesitant    []string
	infoSeeking []string
	stalling    []string
}

// NewResponder creates a responder seeded from the given source.
func NewResponder(seed int64) *Responder {
	return &Responder{
		rng: rand.New(rand.NewSource(seed)),
		neutral: []string{
			"I'm not sure I understand.",
			"Can you explain what this is about?",
			"Who is this?",
		},
		initial: []string{
			"What? I don't understand. What's happening?",
			"Is this real? I'm worried now.",
			"Oh no! What should I do?",
			"I'm scared. Can you help me?",
			"This is urgent? What do I need to do?",
			"I didn't know about this. Please tell me more.",
		},
		curious: []string{
			"Why is this happening?",
			"How did this happen?",
			"What went wrong?",
			"I don't remember doing anything wrong.",
			"Can you explain this to me?",
			"I'm confused. What exactly is the problem?",
		},
		compliance: []string{
			"Okay, what information do you need from me?",
			"I want to fix this. What should I send you?",
			"Please help me. What details do you need?",
			"I'll do whatever is needed. What do you want?",
			"Tell me exactly what I need to share.",
			"I'm ready to cooperate. What's the next step?",
		},
		hesitant: []string{
			"Are you sure this is safe?",
			"Should I really share that information?",
			"Is this the official way to do this?",
			"Can I verify this first?",
			"This seems unusual. Is everything okay?",
			"I want to make sure this is legitimate.",
		},
		infoSeeking: []string{
			"What account number should I use?",
			"Which payment ID exactly?",
			"What's the link I should click?",
			"Where should I send the payment?",
			"What amount should I transfer?",
			"What OTP are you talking about?",
		},
		stalling: []string{
			"Let me find that information. One moment.",
			"I'm checking my records. Give me a second.",
			"I need to look for that. Can you wait?",
			"Let me grab my phone/documents.",
			"I'm trying to remember. Hold on.",
			"I'm not near my computer right now.",
		},
	}
}

// Reply picks a response for the current conversation stage. Stages
// escalate from shock through compliance to stalling as the message
// count grows, mirroring how a real victim's engagement evolves.
func (r *Responder) Reply(scammerText string, scamDetected bool, messageCount int) string {
	if !scamDetected {
		return r.pick(r.neutral)
	}

	lower := strings.ToLower(scammerText)
	asksForDetails := strings.Contains(lower, "account") ||
		strings.Contains(lower, "number") ||
		strings.Contains(lower, "upi") ||
		strings.Contains(lower, "otp") ||
		strings.Contains(lower, "password")

	switch {
	case messageCount <= 2:
		return r.pick(r.initial)
	case messageCount <= 4:
		return r.pick(r.curious)
	case messageCount <= 7:
		if asksForDetails && r.chance(0.5) {
			return r.pick(r.infoSeeking)
		}
		return r.pick(r.compliance)
	case messageCount <= 10:
		if r.chance(0.4) {
			return r.pick(r.hesitant)
		}
		return r.pick(r.infoSeeking)
	default:
		if r.chance(0.5) {
			return r.pick(r.stalling)
		}
		return r.pick(r.infoSeeking)
	}
}

// ReplyTo is a convenience over Reply for a full message.
func (r *Responder) ReplyTo(msg models.Message, scamDetected bool, messageCount int) string {
	return r.Reply(msg.Text, scamDetected, messageCount)
}

func (r *Responder) pick(set []string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return set[r.rng.Intn(len(set))]
}

func (r *Responder) chance(p float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64() < p
}
