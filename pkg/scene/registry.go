package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/df07/go-progressive-photonmapper/pkg/geometry"
)

var ErrUnknownScene = errors.New("scene: unknown scene")

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
}

type builtin struct {
	info SceneInfo
	new  func(cameraOverrides ...geometry.CameraConfig) *Scene
}

var builtins = map[string]builtin{
	"cornell": {
		info: SceneInfo{ID: "cornell", DisplayName: "Cornell Box", Description: "diffuse walls, mirror and glass spheres, ceiling quad light"},
		new:  NewCornellScene,
	},
	"ground": {
		info: SceneInfo{ID: "ground", DisplayName: "Ground Plane", Description: "single diffuse ground quad under a quad light"},
		new:  NewGroundScene,
	},
	"caustic": {
		info: SceneInfo{ID: "caustic", DisplayName: "Glass Caustic", Description: "glass sphere over a diffuse floor lit by a sphere light"},
		new:  NewCausticScene,
	},
}

// ListScenes returns the built-in scenes sorted by ID
func ListScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtins))
	for _, b := range builtins {
		scenes = append(scenes, b.info)
	}
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].ID < scenes[j].ID
	})
	return scenes
}

// NewScene creates the built-in scene with the given ID
func NewScene(id string, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	b, ok := builtins[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, id)
	}
	return b.new(cameraOverrides...), nil
}
