package eventgen

import "time"

// Event is one customer interaction with a streaming service. It matches
// the CustomerEvent record in schemas/customer_events/v2.avsc and encodes
// under v1 as well, which lacks UserActions.
type Event struct {
	EventID          string           `avro:"event_id" json:"event_id"`
	EventType        string           `avro:"event_type" json:"event_type"`
	Timestamp        time.Time        `avro:"timestamp" json:"timestamp"`
	Device           Device           `avro:"device" json:"device"`
	Location         Location         `avro:"location" json:"location"`
	Content          Content          `avro:"content" json:"content"`
	EventDetails     EventDetails     `avro:"event_details" json:"event_details"`
	UserSubscription UserSubscription `avro:"user_subscription" json:"user_subscription"`
	Recommendations  []Recommendation `avro:"recommendations" json:"recommendations"`
	SearchHistory    []Search         `avro:"search_history" json:"search_history"`
	UserActions      []UserAction     `avro:"user_actions" json:"user_actions"`
}

type Device struct {
	Type       string  `avro:"type" json:"type"`
	OS         string  `avro:"os" json:"os"`
	OSVersion  string  `avro:"os_version" json:"os_version"`
	AppVersion string  `avro:"app_version" json:"app_version"`
	Model      *string `avro:"model" json:"model"`
}

type Location struct {
	Country  string  `avro:"country" json:"country"`
	City     *string `avro:"city" json:"city"`
	Region   *string `avro:"region" json:"region"`
	Timezone *string `avro:"timezone" json:"timezone"`
}

// Content describes the watched title. Season and Episode are -1 for
// content that is not episodic.
type Content struct {
	ID          string `avro:"id" json:"id"`
	Title       string `avro:"title" json:"title"`
	Type        string `avro:"type" json:"type"`
	Season      int    `avro:"season" json:"season"`
	Episode     int    `avro:"episode" json:"episode"`
	Duration    int    `avro:"duration" json:"duration"`
	Language    string `avro:"language" json:"language"`
	Provider    string `avro:"provider" json:"provider"`
	Genre       string `avro:"genre" json:"genre"`
	ReleaseYear int    `avro:"release_year" json:"release_year"`
}

type EventDetails struct {
	PlayDuration       int     `avro:"play_duration" json:"play_duration"`
	PlayPercentage     float64 `avro:"play_percentage" json:"play_percentage"`
	PlaybackQuality    string  `avro:"playback_quality" json:"playback_quality"`
	BufferingIncidents int     `avro:"buffering_incidents" json:"buffering_incidents"`
	PlaybackSpeed      float64 `avro:"playback_speed" json:"playback_speed"`
	Paused             bool    `avro:"paused" json:"paused"`
	Completed          bool    `avro:"completed" json:"completed"`
	NetworkType        string  `avro:"network_type" json:"network_type"`
	Bandwidth          string  `avro:"bandwidth" json:"bandwidth"`
}

type UserSubscription struct {
	Plan              string   `avro:"plan" json:"plan"`
	StartDate         string   `avro:"start_date" json:"start_date"`
	BillingCycle      string   `avro:"billing_cycle" json:"billing_cycle"`
	ConnectedServices []string `avro:"connected_services" json:"connected_services"`
}

type Recommendation struct {
	ContentID string `avro:"content_id" json:"content_id"`
	Position  int    `avro:"position" json:"position"`
	Algorithm string `avro:"algorithm" json:"algorithm"`
	Clicked   bool   `avro:"clicked" json:"clicked"`
}

type Search struct {
	SearchID     string `avro:"search_id" json:"search_id"`
	Timestamp    string `avro:"timestamp" json:"timestamp"`
	Query        string `avro:"query" json:"query"`
	ResultsCount int    `avro:"results_count" json:"results_count"`
}

// UserAction is a player interaction. Only the fields of its ActionType
// are set.
type UserAction struct {
	ActionType string   `avro:"action_type" json:"action_type"`
	Timestamp  string   `avro:"timestamp" json:"timestamp"`
	Duration   *int     `avro:"duration" json:"duration,omitempty"`
	OldQuality *string  `avro:"old_quality" json:"old_quality,omitempty"`
	NewQuality *string  `avro:"new_quality" json:"new_quality,omitempty"`
	OldSpeed   *float64 `avro:"old_speed" json:"old_speed,omitempty"`
	NewSpeed   *float64 `avro:"new_speed" json:"new_speed,omitempty"`
}
