package cli

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"github.com/dyike/ForecastGo/consts"
)

// PromptForAsset asks which cryptocurrency to use, defaulting to def.
func PromptForAsset(def string) (string, error) {
	options := make([]string, 0, len(consts.Assets))
	defOption := ""
	for _, a := range consts.Assets {
		opt := fmt.Sprintf("%s - %s", a.Symbol, a.Name)
		if a.Symbol == def {
			defOption = opt
		}
		options = append(options, opt)
	}

	prompt := &survey.Select{
		Message: "Select a cryptocurrency:",
		Options: options,
		Help:    "The forecast backend supports the listed assets only.",
	}
	if defOption != "" {
		prompt.Default = defOption
	}

	var selected string
	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}
	return strings.Split(selected, " -")[0], nil
}

// PromptForHolding asks for the fields of a new holding.
func PromptForHolding(def string) (asset, amount, price string, err error) {
	qs := []*survey.Question{
		{
			Name:      "asset",
			Prompt:    &survey.Input{Message: "Asset:", Default: def},
			Validate:  survey.Required,
			Transform: survey.TransformString(strings.ToUpper),
		},
		{
			Name:     "amount",
			Prompt:   &survey.Input{Message: "Amount:", Help: "Units held, e.g. 0.5"},
			Validate: survey.Required,
		},
		{
			Name:     "price",
			Prompt:   &survey.Input{Message: "Purchase price (USD):"},
			Validate: survey.Required,
		},
	}
	answers := struct {
		Asset  string
		Amount string
		Price  string
	}{}
	if err := survey.Ask(qs, &answers); err != nil {
		return "", "", "", err
	}
	return answers.Asset, answers.Amount, answers.Price, nil
}

// surveyConfirmer asks yes/no questions on the terminal.
type surveyConfirmer struct{}

func (surveyConfirmer) Confirm(message string) (bool, error) {
	var confirmed bool
	prompt := &survey.Confirm{
		Message: message,
		Default: false,
	}
	err := survey.AskOne(prompt, &confirmed)
	return confirmed, err
}

// yesConfirmer answers yes without asking, for --yes.
type yesConfirmer struct{}

func (yesConfirmer) Confirm(string) (bool, error) { return true, nil }
