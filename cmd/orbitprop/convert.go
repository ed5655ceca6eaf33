package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/orbitprop/internal/config"
	"github.com/san-kum/orbitprop/internal/elements"
	"github.com/san-kum/orbitprop/internal/orbit"
	"github.com/soypat/geometry/md3"
)

func convertElements(cmd *cobra.Command, args []string) error {
	var in config.ElementsConfig
	in.SemiMajorAxis = semiMajor
	applyElementFlags(cmd, &in)

	logger, err := newLogger()
	if err != nil {
		return err
	}
	if err := elements.Degeneracy(in.Classical); err != nil {
		logger.Warn("elements are degenerate; angles below follow the fallback convention", "error", err)
	}

	var (
		state orbit.State
		eq    elements.Equinoctial
	)
	if in.P > 0 {
		state, err = elements.ClassicalToStateP(in.P, in.Classical, mu)
		if err == nil {
			eq, err = elements.ClassicalToEquinoctialP(in.P, in.Classical)
		}
	} else {
		state, err = elements.ClassicalToState(in.Classical, mu)
		if err == nil {
			eq, err = elements.ClassicalToEquinoctial(in.Classical)
		}
	}
	if err != nil {
		return err
	}

	back, err := elements.StateToClassical(state)
	if err != nil {
		return err
	}
	eqState, err := elements.EquinoctialToState(eq, mu)
	if err != nil {
		return err
	}

	s := cliStyles()
	lines := []string{
		s.Title.Render("classical"),
		s.Row("in", in.Classical.String()),
		"",
		s.Title.Render("state"),
		s.Row("r (m)", fmt.Sprintf("%.6f %.6f %.6f", state.Position.X, state.Position.Y, state.Position.Z)),
		s.Row("v (m/s)", fmt.Sprintf("%.6f %.6f %.6f", state.Velocity.X, state.Velocity.Y, state.Velocity.Z)),
		s.Row("energy", fmt.Sprintf("%.6e", state.SpecificEnergy())),
		"",
		s.Title.Render("equinoctial"),
		s.Row("p", fmt.Sprintf("%.6f", eq.P)),
		s.Row("f g", fmt.Sprintf("%.8f %.8f", eq.E1, eq.E2)),
		s.Row("h k", fmt.Sprintf("%.8f %.8f", eq.N1, eq.N2)),
		s.Row("L", fmt.Sprintf("%.6f°", degrees(eq.TrueLongitude))),
		"",
		s.Title.Render("round trip"),
		s.Row("state", back.String()),
		s.Row("equinoctial", elements.EquinoctialToClassical(eq).String()),
		s.Row("|Δr| direct", fmt.Sprintf("%.3e m", md3.Norm(md3.Sub(state.Position, eqState.Position)))),
	}
	fmt.Println(s.Panel.Render(strings.Join(lines, "\n")))
	return nil
}
