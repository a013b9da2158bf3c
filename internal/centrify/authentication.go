/*
 * Copyright (c) 2022-Present, Centrify, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package centrify

// Advance actions on /Security/AdvanceAuthentication
const (
	// ActionAnswer submit a collected answer value
	ActionAnswer = "Answer"
	// ActionStartOOB trigger the out-of-band channel
	ActionStartOOB = "StartOOB"
	// ActionPoll poll for out-of-band completion
	ActionPoll = "Poll"
)

// Summary values in AuthResult
const (
	// SummaryOobPending out-of-band channel has not completed yet
	SummaryOobPending = "OobPending"
	// SummaryLoginSuccess authentication complete, Auth carries the bearer token
	SummaryLoginSuccess = "LoginSuccess"
	// SummaryStartNextChallenge another challenge round follows
	SummaryStartNextChallenge = "StartNextChallenge"
	// SummaryNewPackage provider replaced the pending challenge set
	SummaryNewPackage = "NewPackage"
)

// AnswerKind tagged dispatch for a mechanism's AnswerType wire value.
type AnswerKind int

const (
	// AnswerText a secret value typed by the operator
	AnswerText AnswerKind = iota
	// AnswerStartTextOob out-of-band channel that also accepts a typed code
	AnswerStartTextOob
	// AnswerOob out-of-band only, completion detected by polling
	AnswerOob
)

// SessionState authentication session lifecycle state
type SessionState string

const (
	// StateStarted session established with the provider
	StateStarted SessionState = "Started"
	// StateAwaitingChallenge one or more challenge rounds outstanding
	StateAwaitingChallenge SessionState = "AwaitingChallenge"
	// StateAuthenticated provider issued the bearer token
	StateAuthenticated SessionState = "Authenticated"
	// StateFailed provider reported failure
	StateFailed SessionState = "Failed"
)

// Session An authentication session. TenantID and SessionID are assigned by
// the provider on the first successful start call and are immutable for the
// session's lifetime. Endpoint is rewritten at most once, before any
// challenge round, when the provider signals pod rediscovery.
type Session struct {
	Endpoint  string
	TenantID  string
	SessionID string
	State     SessionState
}

// Mechanism One authentication mechanism option within a challenge.
type Mechanism struct {
	MechanismID      string `json:"MechanismId"`
	AnswerType       string `json:"AnswerType"`
	Name             string `json:"Name"`
	PromptSelectMech string `json:"PromptSelectMech"`
	PromptMechChosen string `json:"PromptMechChosen"`
}

// Kind Maps the wire AnswerType onto the three known cases; anything
// unrecognized is treated as out-of-band.
func (m Mechanism) Kind() AnswerKind {
	switch m.AnswerType {
	case "Text":
		return AnswerText
	case "StartTextOob":
		return AnswerStartTextOob
	default:
		return AnswerOob
	}
}

// SelectLabel Label shown in the mechanism selection list.
func (m Mechanism) SelectLabel() string {
	if m.PromptSelectMech != "" {
		return m.PromptSelectMech
	}
	return m.Name
}

// Prompt Label shown once the mechanism is chosen.
func (m Mechanism) Prompt() string {
	if m.PromptMechChosen != "" {
		return m.PromptMechChosen
	}
	return m.SelectLabel()
}

// Challenge An ordered set of mechanism options; the operator chooses exactly
// one per round.
type Challenge struct {
	Mechanisms []Mechanism `json:"Mechanisms"`
}

// AuthResult Result body of both StartAuthentication and
// AdvanceAuthentication responses.
type AuthResult struct {
	TenantID   string      `json:"TenantId"`
	SessionID  string      `json:"SessionId"`
	PodFqdn    string      `json:"PodFqdn"`
	Challenges []Challenge `json:"Challenges"`
	Summary    string      `json:"Summary"`
	Auth       string      `json:"Auth"`
}

// AuthResponse Envelope of all /Security API responses.
type AuthResponse struct {
	Success   bool       `json:"success"`
	Result    AuthResult `json:"Result"`
	Message   string     `json:"Message"`
	Exception string     `json:"Exception"`
	ErrorID   string     `json:"ErrorID"`
	ErrorCode string     `json:"ErrorCode"`
}

// startAuthenticationRequest typed request body; values are serialized by
// the JSON encoder, never embedded by string concatenation.
type startAuthenticationRequest struct {
	User    string `json:"User"`
	Version string `json:"Version"`
}

type advanceAuthenticationRequest struct {
	Action          string `json:"Action"`
	MechanismID     string `json:"MechanismId,omitempty"`
	Answer          string `json:"Answer,omitempty"`
	TenantID        string `json:"TenantId"`
	SessionID       string `json:"SessionId"`
	PersistentLogin bool   `json:"PersistentLogin"`
}
