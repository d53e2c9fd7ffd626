package controller

import (
	"github.com/urfave/cli/v2"

	"ghuman-groceries/repository"
)

// CreditorController handles the creditors commands
type CreditorController struct {
	repository repository.CreditorRepositoryInterface
}

// NewCreditorController creates a new CreditorController
func NewCreditorController(repo repository.CreditorRepositoryInterface) *CreditorController {
	return &CreditorController{repository: repo}
}

// List handles `creditors list`
func (cc *CreditorController) List(c *cli.Context) error {
	creditors, err := cc.repository.List(c.Context)
	if err != nil {
		return fail("ListCreditors", err)
	}
	return writeJSON(c, creditors)
}

// Clear handles `creditors clear --id ... --amount ...`
// Example response: {"id": "7c1e...", "paid": 100, "remainingDebt": 50}
func (cc *CreditorController) Clear(c *cli.Context) error {
	id, err := requireString(c, "id")
	if err != nil {
		return err
	}
	amount := c.Float64("amount")
	if amount <= 0 {
		return cli.Exit("--amount must be greater than 0", 2)
	}

	left, err := cc.repository.ClearDebt(c.Context, id, amount)
	if err != nil {
		return fail("ClearDebt", err)
	}
	return writeJSON(c, map[string]interface{}{
		"id":            id,
		"paid":          amount,
		"remainingDebt": left,
		"cleared":       left <= 0,
	})
}
