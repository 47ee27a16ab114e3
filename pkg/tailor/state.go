package tailor

// Status tracks how far a run progressed.
type Status string

const (
	StatusInitialized                 Status = "initialized"
	StatusInputsProcessed             Status = "inputs_processed"
	StatusResumeGenerated             Status = "resume_generated"
	StatusResumeGenerationFailed      Status = "resume_generation_failed"
	StatusCoverLetterGenerated        Status = "cover_letter_generated"
	StatusCoverLetterGenerationFailed Status = "cover_letter_generation_failed"
)

// RunState is the record threaded through every workflow node. It is
// copied by value between nodes and serialized into checkpoints.
//
// Once Error is non-empty, nodes pass the state through unchanged; no
// output field is mutated and the status stays at the failure marker.
type RunState struct {
	CompanyName           string `json:"company_name"`
	CurrentLatexResume    string `json:"current_latex_resume"`
	ComprehensiveProfile  string `json:"comprehensive_profile"`
	CompanyJobDescription string `json:"company_job_description"`

	// GenerateCoverLetter is set once at run start, never mutated.
	GenerateCoverLetter bool `json:"generate_cover_letter"`

	GeneratedResume string `json:"generated_resume,omitempty"`
	CoverLetter     string `json:"cover_letter,omitempty"`

	// Error short-circuits all downstream nodes once set.
	Error string `json:"error,omitempty"`

	Metrics Metrics `json:"metrics"`
}

// Result is the outcome of one full run. Immutable after construction.
type Result struct {
	GeneratedResume string  `json:"generated_resume,omitempty"`
	CoverLetter     string  `json:"cover_letter,omitempty"`
	Error           string  `json:"error,omitempty"`
	Metrics         Metrics `json:"metrics"`
}

// Failed reports whether the run ended with an error.
func (r Result) Failed() bool {
	return r.Error != ""
}
