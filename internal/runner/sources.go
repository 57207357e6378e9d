package runner

import (
	"fmt"

	"github.com/promptbench/promptbench/internal/suite"
	"github.com/promptbench/promptbench/internal/tabular"
)

// resolveSuiteCases turns the configured data source into an ordered case
// list. Source precedence: in-memory table, then CSV path, then explicit
// lists; the first usable source wins. Reference data is dropped when the
// scoring method does not require it.
func resolveSuiteCases(o *suiteOptions, needReference bool) ([]suite.TestCase, error) {
	data := o.data
	if data == nil && o.dataPath != "" {
		loaded, err := tabular.FromFile(o.dataPath)
		if err != nil {
			return nil, &suite.UserInputError{Msg: fmt.Sprintf("invalid reference data: %v", err)}
		}
		data = loaded
	}

	if data != nil {
		return casesFromTable(data, o.inputColumn, o.referenceColumn, needReference)
	}

	if len(o.inputList) > 0 {
		return casesFromLists(o.inputList, o.referenceList, needReference)
	}

	return nil, &suite.UserInputError{
		Msg: "no reference data supplied: provide a table, a data path, or an input list",
	}
}

func casesFromTable(data *tabular.Table, inputColumn, referenceColumn string, needReference bool) ([]suite.TestCase, error) {
	inputs, err := data.Column(inputColumn)
	if err != nil {
		return nil, &suite.UserInputError{Msg: fmt.Sprintf("invalid reference data: %v", err)}
	}

	var references []string
	if needReference {
		references, err = data.Column(referenceColumn)
		if err != nil {
			return nil, &suite.UserInputError{Msg: fmt.Sprintf("invalid reference data: %v", err)}
		}
	}

	cases := make([]suite.TestCase, len(inputs))
	for i, input := range inputs {
		cases[i] = suite.TestCase{Input: input}
		if references != nil {
			cases[i].ReferenceOutput = references[i]
		}
	}
	return cases, nil
}

func casesFromLists(inputs, references []string, needReference bool) ([]suite.TestCase, error) {
	if needReference {
		if len(references) == 0 {
			return nil, &suite.UserInputError{
				Msg: "scoring method requires reference outputs but no reference list was supplied",
			}
		}
		if len(references) != len(inputs) {
			return nil, &suite.UserInputError{
				Msg: fmt.Sprintf("input list has %d items but reference list has %d", len(inputs), len(references)),
			}
		}
	}

	cases := make([]suite.TestCase, len(inputs))
	for i, input := range inputs {
		cases[i] = suite.TestCase{Input: input}
		if needReference {
			cases[i].ReferenceOutput = references[i]
		}
	}
	return cases, nil
}

// resolveRunData turns the configured candidate source into a candidate
// list plus an optional context list, mirroring the suite builder's source
// precedence. A nil context slice means no context was supplied.
func resolveRunData(o *runOptions) (candidates, contexts []string, err error) {
	data := o.data
	if data == nil && o.dataPath != "" {
		loaded, err := tabular.FromFile(o.dataPath)
		if err != nil {
			return nil, nil, &suite.UserInputError{Msg: fmt.Sprintf("invalid candidate data: %v", err)}
		}
		data = loaded
	}

	if data != nil {
		candidates, err = data.Column(o.candidateColumn)
		if err != nil {
			return nil, nil, &suite.UserInputError{Msg: fmt.Sprintf("invalid candidate data: %v", err)}
		}
		if o.contextColumn != "" {
			contexts, err = data.Column(o.contextColumn)
			if err != nil {
				return nil, nil, &suite.UserInputError{Msg: fmt.Sprintf("invalid context data: %v", err)}
			}
		}
		return candidates, contexts, nil
	}

	if len(o.candidateList) > 0 {
		return o.candidateList, o.contextList, nil
	}

	return nil, nil, &suite.UserInputError{
		Msg: "no candidate data supplied: provide a table, a data path, or a candidate list",
	}
}
