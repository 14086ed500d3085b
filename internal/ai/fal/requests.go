package fal

// ImageSize is an explicit pixel size.
type ImageSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// FluxRequest is the input of the flux-pro and flux/schnell endpoints.
type FluxRequest struct {
	Prompt              string     `json:"prompt"`
	ImageSize           *ImageSize `json:"image_size,omitempty"`
	EnableSafetyChecker bool       `json:"enable_safety_checker"`
	Seed                *int       `json:"seed,omitempty"`
}

// RecraftRequest is the input of recraft-v3. Style is required by the model.
type RecraftRequest struct {
	Prompt              string     `json:"prompt"`
	ImageSize           *ImageSize `json:"image_size,omitempty"`
	Style               string     `json:"style"`
	StyleID             string     `json:"style_id,omitempty"`
	EnableSafetyChecker bool       `json:"enable_safety_checker"`
	Seed                *int       `json:"seed,omitempty"`
}

// UltraRequest is the input of flux-pro ultra and its redux variant. It is sized by
// aspect ratio and never carries an image_size.
type UltraRequest struct {
	Prompt              string `json:"prompt"`
	AspectRatio         string `json:"aspect_ratio,omitempty"`
	SafetyTolerance     int    `json:"safety_tolerance"`
	Raw                 bool   `json:"raw"`
	ImageURL            string `json:"image_url,omitempty"`
	EnableSafetyChecker bool   `json:"enable_safety_checker"`
	Seed                *int   `json:"seed,omitempty"`
}

// WorkflowRequest is the input of workflow model endpoints that take a named size.
type WorkflowRequest struct {
	Prompt              string `json:"prompt"`
	ImageSize           string `json:"image_size,omitempty"`
	Style               string `json:"style,omitempty"`
	EnableSafetyChecker bool   `json:"enable_safety_checker"`
	Seed                *int   `json:"seed,omitempty"`
}

// SubjectRequest is the input of flux-subject.
type SubjectRequest struct {
	Prompt              string     `json:"prompt"`
	ImageURL            string     `json:"image_url"`
	ImageSize           *ImageSize `json:"image_size,omitempty"`
	EnableSafetyChecker bool       `json:"enable_safety_checker"`
	OutputFormat        string     `json:"output_format"`
}

// FillRequest is the input of flux-pro fill. The endpoint takes the tolerance as a string.
type FillRequest struct {
	Prompt          string `json:"prompt"`
	ImageURL        string `json:"image_url"`
	MaskURL         string `json:"mask_url"`
	SafetyTolerance string `json:"safety_tolerance"`
}

// PuLIDRequest is the input of flux-pulid.
type PuLIDRequest struct {
	Prompt              string  `json:"prompt"`
	ReferenceImageURL   string  `json:"reference_image_url"`
	ImageSize           string  `json:"image_size"`
	TrueCFG             float64 `json:"true_cfg"`
	GuidanceScale       float64 `json:"guidance_scale"`
	IDWeight            float64 `json:"id_weight"`
	NegativePrompt      string  `json:"negative_prompt"`
	MaxSequenceLength   int     `json:"max_sequence_length"`
	NumInferenceSteps   int     `json:"num_inference_steps"`
	EnableSafetyChecker bool    `json:"enable_safety_checker"`
}

// NewPuLIDRequest fills the fixed tuning of the identity-preserving edit.
func NewPuLIDRequest(prompt, referenceURL, imageSize string) PuLIDRequest {
	return PuLIDRequest{
		Prompt:            prompt,
		ReferenceImageURL: referenceURL,
		ImageSize:         imageSize,
		TrueCFG:           1,
		GuidanceScale:     4,
		IDWeight:          1,
		NegativePrompt:    "bad quality, worst quality, text, signature, watermark, extra limbs, bad anatomy, 6 fingers",
		MaxSequenceLength: 128,
		NumInferenceSteps: 20,
	}
}

// WriteRequest is the input of any-llm.
type WriteRequest struct {
	Prompt       string `json:"prompt"`
	SystemPrompt string `json:"system_prompt,omitempty"`
	Model        string `json:"model"`
	ImageURL     string `json:"image_url,omitempty"`
}

// SeedPtr returns nil for seeds that leave the choice to the provider.
func SeedPtr(seed int) *int {
	if seed <= 0 {
		return nil
	}
	return &seed
}
