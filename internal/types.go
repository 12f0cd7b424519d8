package internal

// Status describes the terminal state of one video's processing.
type Status string

const (
	StatusSuccess         Status = "success"
	StatusPrinted         Status = "printed"
	StatusMissingSubtitle Status = "missing_subtitle"
	StatusError           Status = "error"
)

// SubtitleSource records where a video's transcript text came from.
type SubtitleSource string

const (
	SourceManual  SubtitleSource = "manual"
	SourceAuto    SubtitleSource = "auto"
	SourceWhisper SubtitleSource = "whisper"
)

// VideoEntry is the minimal identity produced by a channel listing.
type VideoEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// TranscriptSection is one language's worth of normalized transcript text.
type TranscriptSection struct {
	Language string
	Text     string
}

// VideoResult is the terminal record for one processed video.
type VideoResult struct {
	VideoID        string         `json:"video_id"`
	Title          string         `json:"title"`
	URL            string         `json:"url"`
	UploadDate     string         `json:"upload_date"`
	Channel        string         `json:"channel,omitempty"`
	TranscriptPath string         `json:"transcript_path,omitempty"`
	Languages      []string       `json:"languages"`
	Duration       float64        `json:"duration,omitempty"`
	Source         SubtitleSource `json:"subtitle_source,omitempty"`
	Status         Status         `json:"status"`
	Message        string         `json:"message,omitempty"`
}

// BatchResult collects everything one channel run produced.
type BatchResult struct {
	ChannelSlug string        `json:"channel_slug"`
	OutputDir   string        `json:"output_dir"`
	URLsFile    string        `json:"urls_file"`
	Results     []VideoResult `json:"results"`
}

// Counts returns how many results finished successfully and how many did not.
func (b *BatchResult) Counts() (success, failed int) {
	for _, r := range b.Results {
		if r.Status == StatusSuccess {
			success++
		} else {
			failed++
		}
	}
	return success, failed
}
