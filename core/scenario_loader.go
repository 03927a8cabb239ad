package core

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/signalsfoundry/dish-optics/model"
)

// internal JSON shapes; every field is optional and falls back to
// model.DefaultScenario.
type scenarioJSON struct {
	Name    string       `json:"name"`
	Dish    *dishJSON    `json:"dish"`
	Feed    *feedJSON    `json:"feed"`
	Sweep   *sweepJSON   `json:"sweep"`
	Display *displayJSON `json:"display"`
}

type dishJSON struct {
	DiameterM  *float64 `json:"diameter_m"`
	FocalRatio *float64 `json:"f_over_d"`
}

type feedJSON struct {
	Beamwidth10dBDeg *float64 `json:"beamwidth_10db_deg"`
	HeightOffsetM    *float64 `json:"height_offset_m"`
}

type sweepJSON struct {
	Rays       *int     `json:"rays"`
	SpanFactor *float64 `json:"span_factor"`
}

type displayJSON struct {
	ShowRays    *bool `json:"show_rays"`
	ShowNormals *bool `json:"show_normals"`
	ShowFeed    *bool `json:"show_feed"`
}

// LoadScenario reads a JSON scenario from r, fills unset fields from the
// defaults, and validates both the slider ranges and the physics.
func LoadScenario(r io.Reader) (model.Scenario, error) {
	var payload scenarioJSON
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		return model.Scenario{}, fmt.Errorf("%w: decode failed: %v", ErrInvalidScenario, err)
	}

	s := model.DefaultScenario()
	if payload.Name != "" {
		s.Name = payload.Name
	}
	if d := payload.Dish; d != nil {
		setFloat(&s.Dish.DiameterM, d.DiameterM)
		setFloat(&s.Dish.FocalRatio, d.FocalRatio)
	}
	if f := payload.Feed; f != nil {
		setFloat(&s.Feed.Beamwidth10dBDeg, f.Beamwidth10dBDeg)
		setFloat(&s.Feed.HeightOffsetM, f.HeightOffsetM)
	}
	if sw := payload.Sweep; sw != nil {
		if sw.Rays != nil {
			s.Sweep.Rays = *sw.Rays
		}
		setFloat(&s.Sweep.SpanFactor, sw.SpanFactor)
	}
	if d := payload.Display; d != nil {
		setBool(&s.Display.ShowRays, d.ShowRays)
		setBool(&s.Display.ShowNormals, d.ShowNormals)
		setBool(&s.Display.ShowFeed, d.ShowFeed)
	}

	if err := s.Validate(); err != nil {
		return model.Scenario{}, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	if _, err := NewOptics(s); err != nil {
		return model.Scenario{}, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	return s, nil
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
