package api

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/okian/medalboard/internal/domain/medals"
)

// Query parameters of the single-output endpoints.
const (
	paramMin     = "min"
	paramMax     = "max"
	paramSex     = "sex"
	paramCountry = "country"
)

// selectionFromQuery reads ?min=1896&max=2020&sex=All&country=Greece&country=France.
// Both year bounds are required; sex defaults to All; no country selects nothing.
func selectionFromQuery(q url.Values) (Selection, error) {
	lo, err := yearParam(q, paramMin)
	if err != nil {
		return Selection{}, err
	}
	hi, err := yearParam(q, paramMax)
	if err != nil {
		return Selection{}, err
	}
	sex, err := medals.ParseSex(q.Get(paramSex))
	if err != nil {
		return Selection{}, err
	}
	return Selection{
		Years:     medals.Window{Min: lo, Max: hi},
		Countries: countries(q[paramCountry]),
		Sex:       sex,
	}, nil
}

func yearParam(q url.Values, name string) (int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return 0, fmt.Errorf("missing %s", name)
	}
	y, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q; must be an integer year", name, raw)
	}
	return y, nil
}

func countries(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, c := range raw {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// updateRequest mirrors the OpenAPI schema for POST /api/update.
type updateRequest struct {
	Years     []int    `json:"years"`
	Countries []string `json:"countries"`
	Sex       string   `json:"sex"`
}

func (u updateRequest) selection() (Selection, error) {
	if len(u.Years) != 2 {
		return Selection{}, errors.New("years must hold exactly two values")
	}
	sex, err := medals.ParseSex(u.Sex)
	if err != nil {
		return Selection{}, err
	}
	return Selection{
		Years:     medals.Window{Min: u.Years[0], Max: u.Years[1]},
		Countries: countries(u.Countries),
		Sex:       sex,
	}, nil
}
