package domain

import (
	"fmt"

	"github.com/disgoorg/snowflake/v2"
)

// SessionAction is the kind of request evaluated against a guild's voice session.
type SessionAction int

const (
	ActionJoin SessionAction = iota
	ActionEnqueue
	ActionTransportControl
	ActionVoiceButton
)

// String returns the action name used in logs.
func (a SessionAction) String() string {
	switch a {
	case ActionJoin:
		return "join"
	case ActionEnqueue:
		return "enqueue"
	case ActionTransportControl:
		return "transport-control"
	case ActionVoiceButton:
		return "voice-button"
	default:
		return "unknown"
	}
}

// RequiresVoice returns true if the requester must be in a voice channel.
func (a SessionAction) RequiresVoice() bool {
	return true
}

// ConnectsVoice returns true if the action may create or relocate a voice session.
func (a SessionAction) ConnectsVoice() bool {
	return a == ActionJoin || a == ActionEnqueue
}

// Outcome is the result kind of a policy evaluation.
type Outcome int

const (
	OutcomeAllow Outcome = iota
	OutcomeDeny
	OutcomeTakeover
)

// String returns the outcome name used in logs.
func (o Outcome) String() string {
	switch o {
	case OutcomeAllow:
		return "allow"
	case OutcomeDeny:
		return "deny"
	case OutcomeTakeover:
		return "takeover"
	default:
		return "unknown"
	}
}

// Denial reasons shown to users.
const (
	ReasonNotInVoice        = "You need to be in a voice channel to use music commands."
	ReasonNoJoinPermission  = "I don't have permission to join or speak in your voice channel."
	ReasonDifferentChannel  = "I'm already active in a different voice channel."
	ReasonNotDJ             = "You need the DJ role to control playback."
	ReasonCentralNotAllowed = "You don't have permission to use the central music system."
)

// ReasonCentralBusy returns the denial reason for a session held by the central system.
func ReasonCentralBusy(centralVoiceChannelID snowflake.ID) string {
	return fmt.Sprintf(
		"I'm busy with the central music system. Join <#%d> to control it.",
		centralVoiceChannelID,
	)
}

// ReasonCentralVoiceRequired returns the denial reason for a central request made
// from outside the reserved voice channel.
func ReasonCentralVoiceRequired(centralVoiceChannelID snowflake.ID) string {
	return fmt.Sprintf(
		"You must be in <#%d> to use the central music system.",
		centralVoiceChannelID,
	)
}

// SessionDecision is the computed answer to a request. It is never persisted.
type SessionDecision struct {
	Outcome Outcome
	Reason  string
}

// Allow returns an Allow decision.
func Allow() SessionDecision {
	return SessionDecision{Outcome: OutcomeAllow}
}

// Deny returns a Deny decision with a user-facing reason.
func Deny(reason string) SessionDecision {
	return SessionDecision{Outcome: OutcomeDeny, Reason: reason}
}

// Takeover returns a Takeover decision.
func Takeover() SessionDecision {
	return SessionDecision{Outcome: OutcomeTakeover}
}

// IsDenied returns true if the request must be refused.
func (d SessionDecision) IsDenied() bool {
	return d.Outcome == OutcomeDeny
}

// PolicyInput is everything the policy looks at for one request.
type PolicyInput struct {
	Action SessionAction

	// RequesterVoiceChannelID is zero when the requester is not in voice.
	RequesterVoiceChannelID snowflake.ID
	RequesterRoleIDs        []snowflake.ID

	// CanJoin is whether the bot may connect and speak in the requester's channel.
	CanJoin bool

	FromCentralChannel bool

	// Session and Config may be nil.
	Session *GuildVoiceSession
	Config  *GuildConfig
}

// EvaluateSession decides whether a request may proceed.
//
// Location rules are evaluated first, in order: voice presence, join permission,
// no session, same channel, different channel. Role gates apply to anything the
// location rules did not deny.
func EvaluateSession(in PolicyInput) SessionDecision {
	decision := evaluateLocation(in)
	if decision.IsDenied() {
		return decision
	}

	switch in.Action {
	case ActionTransportControl, ActionVoiceButton:
		if !in.Config.CanUseMusic(in.RequesterRoleIDs) {
			return Deny(ReasonNotDJ)
		}
	case ActionEnqueue:
		if !in.FromCentralChannel {
			break
		}
		if !in.Config.CanUseCentralSystem(in.RequesterRoleIDs) {
			return Deny(ReasonCentralNotAllowed)
		}
		if reserved := in.Config.Central.VoiceChannelID; reserved != 0 &&
			reserved != in.RequesterVoiceChannelID {
			return Deny(ReasonCentralVoiceRequired(reserved))
		}
	}

	return decision
}

func evaluateLocation(in PolicyInput) SessionDecision {
	if in.Action.RequiresVoice() && in.RequesterVoiceChannelID == 0 {
		return Deny(ReasonNotInVoice)
	}

	if in.Action.ConnectsVoice() && !in.CanJoin {
		return Deny(ReasonNoJoinPermission)
	}

	session := in.Session
	if session == nil {
		return Allow()
	}

	var central CentralSetup
	if in.Config != nil {
		central = in.Config.Central
	}

	// The central system claims the session when a central request comes from the
	// reserved voice channel and the session is not already driven by the central channel.
	claimsAuthority := in.Action.ConnectsVoice() &&
		in.FromCentralChannel &&
		central.IsCentralVoiceChannel(in.RequesterVoiceChannelID) &&
		session.TextSinkChannelID() != central.ChannelID

	if session.VoiceChannelID() == in.RequesterVoiceChannelID {
		if claimsAuthority {
			return Takeover()
		}
		return Allow()
	}

	if claimsAuthority {
		return Takeover()
	}

	if central.IsCentralVoiceChannel(session.VoiceChannelID()) {
		return Deny(ReasonCentralBusy(session.VoiceChannelID()))
	}

	return Deny(ReasonDifferentChannel)
}
