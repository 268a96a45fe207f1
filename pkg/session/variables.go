// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package session

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/gomlx/exprgraph/backends"
	"github.com/gomlx/exprgraph/pkg/compiler"
	"github.com/gomlx/exprgraph/pkg/core/tensors"
	"github.com/gomlx/exprgraph/pkg/expr"
	"github.com/pkg/errors"
)

// Variables returns the compiled variables, sorted by id. Optimizer slots are not included.
func (s *Session) Variables() []*compiler.Variable {
	var variables []*compiler.Variable
	for _, element := range s.elementsByID() {
		if v, ok := element.(*compiler.Variable); ok {
			variables = append(variables, v)
		}
	}
	return variables
}

// allVariables returns the compiled variables followed by the optimizer slots, without repetitions.
func (s *Session) allVariables() []backends.Variable {
	var all []backends.Variable
	seen := make(map[backends.Variable]bool)
	add := func(v backends.Variable) {
		if !seen[v] {
			seen[v] = true
			all = append(all, v)
		}
	}
	elements := s.elementsByID()
	for _, element := range elements {
		if v, ok := element.(*compiler.Variable); ok {
			add(v.Backend)
		}
	}
	for _, element := range elements {
		if opt, ok := element.(*compiler.Optimizer); ok {
			for _, v := range opt.Touched {
				add(v)
			}
		}
	}
	return all
}

// maxValuesListed is the largest variable whose values are listed by VariablesTable.
const maxValuesListed = 8

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1).Align(lipgloss.Center)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	sizeStyle   = cellStyle.Align(lipgloss.Right)
)

// VariablesTable renders the current value of all variables, including optimizer slots, as a table.
// It reads the values with one Run, so the variables must have been initialized.
func (s *Session) VariablesTable() (string, error) {
	variables := s.allVariables()
	if len(variables) == 0 {
		return "", nil
	}
	if s.finalized.Load() {
		return "", errors.WithStack(ErrFinalized)
	}
	fetches := make([]backends.Op, len(variables))
	for ii, v := range variables {
		fetches[ii] = v.Output()
	}
	values, err := s.backend.Run(nil, fetches, nil)
	if err != nil {
		return "", expr.NewBackendError(err, "reading variables of "+s.String())
	}

	table := lgtable.New().
		Border(lipgloss.RoundedBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row < 0 {
				return headerStyle
			}
			if col == 2 {
				return sizeStyle
			}
			return cellStyle
		}).
		Headers("Variable", "Shape", "Size", "Value")
	var total uint64
	for ii, v := range variables {
		value := values[ii]
		total += uint64(value.Memory())
		table.Row(v.Name(), v.Shape().String(), humanize.Bytes(uint64(value.Memory())), summarize(value))
	}
	table.Row("Total", fmt.Sprintf("%d variables", len(variables)), humanize.Bytes(total), "")
	return table.String(), nil
}

// summarize lists the values of small tensors, and the mean of larger ones.
func summarize(t *tensors.Tensor) string {
	if t.Size() <= maxValuesListed {
		return fmt.Sprint(t.Value())
	}
	var sum float64
	for _, v := range t.Float64s() {
		sum += v
	}
	return fmt.Sprintf("mean=%.4g", sum/float64(t.Size()))
}
