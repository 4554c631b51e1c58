/*
 * scalers.go, part of gomeld.
 *
 * Copyright 2024 Raul Mera <rauldotmeraatusachdotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package system

import (
	"errors"
	"fmt"
	"math"
)

var ErrScaler = errors.New("invalid temperature scaler")

//TemperatureScaler maps the alpha of a replica to the temperature at which it is simulated.
type TemperatureScaler interface {
	Temperature(alpha float64) (Temperature, error)
	Record() ScalerRecord
}

//ScalerRecord is a serializable description of a TemperatureScaler.
type ScalerRecord struct {
	Kind     string      `json:"kind"`
	AlphaMin float64     `json:"alpha_min,omitempty"`
	AlphaMax float64     `json:"alpha_max,omitempty"`
	TMin     Temperature `json:"temperature_min"`
	TMax     Temperature `json:"temperature_max,omitempty"`
}

const (
	ConstantScaler  = "constant"
	LinearScaler    = "linear"
	GeometricScaler = "geometric"
)

func checkAlpha(alpha float64) error {
	if alpha < 0 || alpha > 1 || math.IsNaN(alpha) {
		return fmt.Errorf("%w: alpha %v out of [0, 1]", ErrScaler, alpha)
	}
	return nil
}

//ConstantTemperatureScaler simulates every replica at the same temperature.
type ConstantTemperatureScaler struct {
	T Temperature
}

//NewConstantTemperatureScaler returns a ConstantTemperatureScaler at t.
func NewConstantTemperatureScaler(t Temperature) (*ConstantTemperatureScaler, error) {
	if t <= 0 {
		return nil, fmt.Errorf("%w: temperature must be positive, got %v", ErrScaler, t)
	}
	return &ConstantTemperatureScaler{T: t}, nil
}

func (C *ConstantTemperatureScaler) Temperature(alpha float64) (Temperature, error) {
	if err := checkAlpha(alpha); err != nil {
		return 0, err
	}
	return C.T, nil
}

func (C *ConstantTemperatureScaler) Record() ScalerRecord {
	return ScalerRecord{Kind: ConstantScaler, TMin: C.T}
}

//rampScaler holds what the linear and geometric scalers share: below AlphaMin the
//temperature is TMin, above AlphaMax it is TMax, in between it is interpolated.
type rampScaler struct {
	AlphaMin, AlphaMax float64
	TMin, TMax         Temperature
}

func newRamp(alphaMin, alphaMax float64, tmin, tmax Temperature) (rampScaler, error) {
	r := rampScaler{alphaMin, alphaMax, tmin, tmax}
	if err := checkAlpha(alphaMin); err != nil {
		return r, err
	}
	if err := checkAlpha(alphaMax); err != nil {
		return r, err
	}
	if alphaMin >= alphaMax {
		return r, fmt.Errorf("%w: alpha min (%v) must be smaller than alpha max (%v)", ErrScaler, alphaMin, alphaMax)
	}
	if tmin <= 0 || tmax <= 0 {
		return r, fmt.Errorf("%w: temperatures must be positive", ErrScaler)
	}
	return r, nil
}

//frac returns the position of alpha within the ramp, in [0, 1].
func (R rampScaler) frac(alpha float64) (float64, error) {
	if err := checkAlpha(alpha); err != nil {
		return 0, err
	}
	switch {
	case alpha <= R.AlphaMin:
		return 0, nil
	case alpha >= R.AlphaMax:
		return 1, nil
	}
	return (alpha - R.AlphaMin) / (R.AlphaMax - R.AlphaMin), nil
}

//LinearTemperatureScaler interpolates linearly between TMin and TMax.
type LinearTemperatureScaler struct {
	rampScaler
}

func NewLinearTemperatureScaler(alphaMin, alphaMax float64, tmin, tmax Temperature) (*LinearTemperatureScaler, error) {
	r, err := newRamp(alphaMin, alphaMax, tmin, tmax)
	if err != nil {
		return nil, err
	}
	return &LinearTemperatureScaler{r}, nil
}

func (L *LinearTemperatureScaler) Temperature(alpha float64) (Temperature, error) {
	f, err := L.frac(alpha)
	if err != nil {
		return 0, err
	}
	return L.TMin + Temperature(f)*(L.TMax-L.TMin), nil
}

func (L *LinearTemperatureScaler) Record() ScalerRecord {
	return ScalerRecord{LinearScaler, L.AlphaMin, L.AlphaMax, L.TMin, L.TMax}
}

//GeometricTemperatureScaler interpolates geometrically between TMin and TMax, which
//gives similar exchange rates between neighbours when the heat capacity is constant.
type GeometricTemperatureScaler struct {
	rampScaler
}

func NewGeometricTemperatureScaler(alphaMin, alphaMax float64, tmin, tmax Temperature) (*GeometricTemperatureScaler, error) {
	r, err := newRamp(alphaMin, alphaMax, tmin, tmax)
	if err != nil {
		return nil, err
	}
	return &GeometricTemperatureScaler{r}, nil
}

func (G *GeometricTemperatureScaler) Temperature(alpha float64) (Temperature, error) {
	f, err := G.frac(alpha)
	if err != nil {
		return 0, err
	}
	return G.TMin * Temperature(math.Pow(float64(G.TMax/G.TMin), f)), nil
}

func (G *GeometricTemperatureScaler) Record() ScalerRecord {
	return ScalerRecord{GeometricScaler, G.AlphaMin, G.AlphaMax, G.TMin, G.TMax}
}

//ScalerFromRecord rebuilds the TemperatureScaler described by r.
func ScalerFromRecord(r ScalerRecord) (TemperatureScaler, error) {
	var ts TemperatureScaler
	var err error
	switch r.Kind {
	case ConstantScaler:
		ts, err = NewConstantTemperatureScaler(r.TMin)
	case LinearScaler:
		ts, err = NewLinearTemperatureScaler(r.AlphaMin, r.AlphaMax, r.TMin, r.TMax)
	case GeometricScaler:
		ts, err = NewGeometricTemperatureScaler(r.AlphaMin, r.AlphaMax, r.TMin, r.TMax)
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrScaler, r.Kind)
	}
	if err != nil {
		return nil, err
	}
	return ts, nil
}
