package ai

import (
	"context"

	"github.com/kiranshivaraju/mediagate/internal/ai/cartesia"
	"github.com/kiranshivaraju/mediagate/pkg/models"
)

func (d *Dispatcher) synthesize(ctx context.Context, req *request) (models.Outcome, error) {
	if req.prompt == "" {
		return models.Outcome{}, models.InvalidInput("prompt is required")
	}

	out, err := d.deps.Fal.Audio(ctx, req.prompt, req.desc.Params.Int("duration"))
	if err != nil {
		return models.Outcome{}, err
	}
	return result(models.MediaResult(out))
}

func (d *Dispatcher) voiceClone(ctx context.Context, req *request) (models.Outcome, error) {
	refText, refAudio := req.param("ref_text"), req.url("ref_audio")
	if req.prompt == "" || refText == "" || refAudio == "" {
		return models.Outcome{}, models.InvalidInput("prompt, ref_text and ref_audio are required")
	}

	out, err := d.deps.Fal.VoiceClone(ctx, refAudio, refText, req.prompt)
	if err != nil {
		return models.Outcome{}, err
	}
	return result(models.MediaResult(out))
}

// speech synthesizes the transcript; the wav answer is stored under a random name.
func (d *Dispatcher) speech(ctx context.Context, req *request) (models.Outcome, error) {
	transcript, voice := req.param("transcript"), req.param("voice")
	if transcript == "" || voice == "" {
		return models.Outcome{}, models.InvalidInput("transcript and voice are required")
	}

	data, err := d.deps.Cartesia.Speak(ctx, cartesia.SpeakRequest{
		Transcript: transcript,
		VoiceID:    voice,
		Language:   req.param("language"),
		Controls:   speechControls(req.desc.Params.Raw("controls")),
	})
	if err != nil {
		return models.Outcome{}, err
	}
	return result(&models.ProviderResult{Kind: models.ResultMediaURL, Data: data, ContentType: "audio/wav"})
}

func speechControls(raw any) *cartesia.Controls {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil
	}

	c := &cartesia.Controls{Speed: m["speed"]}
	c.Emotion = models.Params(m).Strings("emotion")
	if c.Speed == nil && len(c.Emotion) == 0 {
		return nil
	}
	return c
}
