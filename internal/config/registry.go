package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/tgfetch/video-bot/internal/model"
)

// QualityOption maps one selectable quality/format to its yt-dlp selector.
// AudioCodec, when set, requests an FFmpeg audio-extraction post-process step.
type QualityOption struct {
	Format     string `yaml:"format"`
	AudioCodec string `yaml:"audio_codec"`
	Label      string `yaml:"label"`
	Emoji      string `yaml:"emoji"`
}

// Registry holds the selectable quality options per content type, in the
// order they are presented to the user.
type Registry struct {
	options map[model.ContentType]map[string]QualityOption
	order   map[model.ContentType][]string
}

// DefaultRegistry returns the built-in quality/format registry.
func DefaultRegistry() *Registry {
	r := &Registry{
		options: map[model.ContentType]map[string]QualityOption{},
		order:   map[model.ContentType][]string{},
	}
	r.add(model.ContentVideo, "360p", QualityOption{
		Format: "worst[height<=360]/worst[height<=480]/worst",
		Label:  "360p (Smallest)",
		Emoji:  "📱",
	})
	r.add(model.ContentVideo, "480p", QualityOption{
		Format: "worst[height<=480]/worst[height<=360]/worst",
		Label:  "480p (Small)",
		Emoji:  "🎬",
	})
	r.add(model.ContentVideo, "audio", QualityOption{
		Format: "bestaudio[ext=m4a]/bestaudio",
		Label:  "Audio Only (Smallest)",
		Emoji:  "🎵",
	})
	r.add(model.ContentAudio, "mp3", QualityOption{
		Format:     "bestaudio[ext=m4a]/bestaudio",
		AudioCodec: "mp3",
		Label:      "MP3 (Universal)",
		Emoji:      "🎵",
	})
	r.add(model.ContentAudio, "m4a", QualityOption{
		Format:     "bestaudio[ext=m4a]/bestaudio",
		AudioCodec: "m4a",
		Label:      "M4A (High Quality)",
		Emoji:      "🎼",
	})
	r.add(model.ContentAudio, "ogg", QualityOption{
		Format:     "bestaudio[ext=webm]/bestaudio",
		AudioCodec: "vorbis",
		Label:      "OGG (Open Source)",
		Emoji:      "🎶",
	})
	return r
}

func (r *Registry) add(ct model.ContentType, key string, opt QualityOption) {
	if r.options[ct] == nil {
		r.options[ct] = map[string]QualityOption{}
	}
	r.options[ct][key] = opt
	r.order[ct] = append(r.order[ct], key)
}

// Lookup returns the option for a (contentType, qualityKey) pair.
func (r *Registry) Lookup(ct model.ContentType, key string) (QualityOption, bool) {
	opts, ok := r.options[ct]
	if !ok {
		return QualityOption{}, false
	}
	opt, ok := opts[key]
	return opt, ok
}

// Keys returns the quality keys for a content type in presentation order.
func (r *Registry) Keys(ct model.ContentType) []string {
	return r.order[ct]
}

// registryFile is the YAML shape for a registry override file.
type registryFile struct {
	Video map[string]QualityOption `yaml:"video"`
	Audio map[string]QualityOption `yaml:"audio"`
	// presentation order; defaults to the built-in order when omitted
	VideoOrder []string `yaml:"video_order"`
	AudioOrder []string `yaml:"audio_order"`
}

// LoadRegistry reads a registry override file. An empty path returns the
// built-in defaults.
func LoadRegistry(path string) (*Registry, error) {
	if path == "" {
		return DefaultRegistry(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry %s: %w", path, err)
	}
	var rf registryFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}

	r := &Registry{
		options: map[model.ContentType]map[string]QualityOption{},
		order:   map[model.ContentType][]string{},
	}
	appendAll := func(ct model.ContentType, opts map[string]QualityOption, order []string) {
		if len(order) == 0 {
			// no explicit order in the file; sort for a stable menu
			for k := range opts {
				order = append(order, k)
			}
			sort.Strings(order)
		}
		for _, k := range order {
			opt, ok := opts[k]
			if !ok {
				continue
			}
			r.add(ct, k, opt)
		}
	}
	appendAll(model.ContentVideo, rf.Video, rf.VideoOrder)
	appendAll(model.ContentAudio, rf.Audio, rf.AudioOrder)

	if len(r.order[model.ContentVideo]) == 0 || len(r.order[model.ContentAudio]) == 0 {
		return nil, fmt.Errorf("registry %s must define both video and audio options", path)
	}
	return r, nil
}
