package handler

import (
	"slices"

	"github.com/kiranshivaraju/mediagate/internal/ai"
	"github.com/kiranshivaraju/mediagate/pkg/models"
)

// Endpoint request shapes.
var (
	RouteLM = Route{
		Kind:       models.TaskTextGenerate,
		ModelParam: "model",
		Media:      map[string]string{"image_url": "image", "file": "image"},
	}
	RouteImageTask = Route{
		Media:   map[string]string{"image_url": "image", "file": "image"},
		Resolve: resolveImageTask,
	}
	RouteBulkDescribe = Route{
		Kind:  models.TaskImageBulkDescribe,
		Media: map[string]string{"image_urls": "images", "images": "images", "files": "images"},
	}
	RouteImageEdit = Route{
		Kind:  models.TaskImageEdit,
		Media: map[string]string{"image_url": "image", "file": "image"},
	}
	RouteImagine = Route{
		Kind:       models.TaskImageGenerate,
		ModelParam: "model",
	}
	RouteWorkflowImagine = Route{
		Kind:       models.TaskImageWorkflow,
		ModelParam: "model",
	}
	RouteInpaint = Route{Kind: models.TaskImageInpaint}
	RouteFill    = Route{
		Kind:  models.TaskImageFill,
		Media: map[string]string{"image_url": "image", "mask_url": "mask", "image_file": "image", "mask_file": "mask"},
	}
	RouteStable = Route{Kind: models.TaskImageStable}
	RouteRunway = Route{
		Kind:  models.TaskVideoGenerate,
		Media: map[string]string{"image_url": "image", "promptImage": "image"},
	}
	RouteSynthesize = Route{Kind: models.TaskAudioSynthesize}
	RouteCloneVoice = Route{
		Kind:  models.TaskVoiceClone,
		Media: map[string]string{"ref_audio_url": "ref_audio"},
	}
	RouteSpeak  = Route{Kind: models.TaskSpeech}
	RouteAvatar = Route{
		Kind:  models.TaskAvatarGenerate,
		Media: map[string]string{"visual_url": "visual", "audio_url": "audio"},
	}
)

var imageTasks = map[string]models.TaskKind{
	"rembg":         models.TaskImageRemoveBackground,
	"upscale":       models.TaskImageUpscale,
	"recraft-style": models.TaskImageStyleCreate,
	"subject":       models.TaskImageSubject,
}

func resolveImageTask(p models.Params) (models.TaskKind, string, error) {
	task := p.String("task")
	if kind, ok := imageTasks[task]; ok {
		return kind, "", nil
	}
	if slices.Contains(ai.VisualTasks(), task) {
		return models.TaskImageDescribe, task, nil
	}
	if task == "" {
		return "", "", models.InvalidInput("task is required")
	}
	return "", "", models.UnsupportedTask("image task %q", task)
}
