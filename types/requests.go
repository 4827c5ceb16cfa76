package types

// DOMOutline carries a light structural summary of the analyzed page.
type DOMOutline struct {
	Title           string   `json:"title"`
	Headings        []string `json:"headings,omitempty"`
	MainTextExcerpt string   `json:"main_text_excerpt,omitempty"`
}

// PageItem is one raw detected item as sent by the extension.
type PageItem struct {
	ID      string    `json:"id"`
	Href    string    `json:"href,omitempty"`
	Text    string    `json:"text"`
	Snippet string    `json:"snippet,omitempty"`
	BBox    []float64 `json:"bbox,omitempty"` // [x, y, width, height]
}

// AnalyzePageRequest asks the engine to rank the items on a page.
// UserID is empty for anonymous ("limited mode") callers.
type AnalyzePageRequest struct {
	UserID     string     `json:"user_id,omitempty"`
	PageURL    string     `json:"page_url"`
	DOMOutline DOMOutline `json:"dom_outline"`
	Items      []PageItem `json:"items"`
}

// ProfileSummary surfaces the user's strongest interests in responses.
type ProfileSummary struct {
	TopTopics []TopicAffinityEntry `json:"top_topics"`
}

// AnalyzePageResponse is the ranked, explained result of one analysis.
type AnalyzePageResponse struct {
	Items          []ScoredItem    `json:"items"`
	PageTopics     []string        `json:"page_topics"`
	ProfileSummary *ProfileSummary `json:"profile_summary,omitempty"`
	TraceRef       string          `json:"trace_ref,omitempty"`
}

// EventRequest records a single interaction event.
type EventRequest struct {
	UserID     string            `json:"user_id"`
	Event      EventType         `json:"event"`
	ItemID     string            `json:"item_id,omitempty"`
	PageURL    string            `json:"page_url,omitempty"`
	Timestamp  int64             `json:"timestamp,omitempty"`
	ItemTopics []string          `json:"item_topics,omitempty"`
	Embedding  []float32         `json:"embedding,omitempty"`
	Voice      *VoicePreferences `json:"voice,omitempty"`
}

// EventResponse acknowledges an applied event. Updated scores are never
// returned synchronously; the next analyze call observes the new profile.
type EventResponse struct {
	Status         string `json:"status"`
	ProfileUpdated bool   `json:"profile_updated"`
}

// Activity is one tracked browsing action from the extension.
type Activity struct {
	Type         string                 `json:"type"` // "page_visit" or "click"
	Timestamp    int64                  `json:"timestamp"`
	SourceDomain string                 `json:"sourceDomain,omitempty"`
	Data         map[string]interface{} `json:"data,omitempty"`
}

// TrackActivityRequest carries a batch of activities for one user.
type TrackActivityRequest struct {
	UserID     string     `json:"user_id,omitempty"`
	Activities []Activity `json:"activities"`
}

// TrackActivityResponse summarizes an ingested activity batch.
type TrackActivityResponse struct {
	Status              string   `json:"status"`
	ActivitiesProcessed int      `json:"activities_processed"`
	CategoriesUpdated   []string `json:"categories_updated"`
}

// DomainStats aggregates activity per source domain.
type DomainStats struct {
	Domain         string `json:"domain"`
	VisitCount     int    `json:"visit_count"`
	TotalTimeSpent int64  `json:"total_time_spent"`
}

// CategoryStats aggregates activity per detected category.
type CategoryStats struct {
	Category       string `json:"category"`
	VisitCount     int    `json:"visit_count"`
	TotalTimeSpent int64  `json:"total_time_spent"`
}

// ActivityHistoryResponse returns recent activities plus aggregates.
type ActivityHistoryResponse struct {
	Activities    []Activity      `json:"activities"`
	TotalCount    int             `json:"total_count"`
	DomainStats   []DomainStats   `json:"domain_stats,omitempty"`
	CategoryStats []CategoryStats `json:"category_stats,omitempty"`
}
