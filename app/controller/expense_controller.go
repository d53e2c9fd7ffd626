package controller

import (
	"time"

	"github.com/urfave/cli/v2"

	"ghuman-groceries/models"
	"ghuman-groceries/repository"
)

// ExpenseController handles the expenses commands
type ExpenseController struct {
	repository repository.ExpenseRepositoryInterface
}

// NewExpenseController creates a new ExpenseController
func NewExpenseController(repo repository.ExpenseRepositoryInterface) *ExpenseController {
	return &ExpenseController{repository: repo}
}

// List handles `expenses list`
func (ec *ExpenseController) List(c *cli.Context) error {
	expenses, err := ec.repository.List(c.Context)
	if err != nil {
		return fail("ListExpenses", err)
	}
	return writeJSON(c, expenses)
}

// Categories handles `expenses categories`
func (ec *ExpenseController) Categories(c *cli.Context) error {
	return writeJSON(c, models.ExpenseCategories)
}

// Add handles `expenses add --category Rent --amount 8000 [--paid-amount 2000] [--due 2026-11-01]`
func (ec *ExpenseController) Add(c *cli.Context) error {
	category, err := requireString(c, "category")
	if err != nil {
		return err
	}
	date, err := parseDay(c, "date", time.Time{})
	if err != nil {
		return err
	}

	ne := models.NewExpense{
		Category:    category,
		Amount:      c.Float64("amount"),
		Description: c.String("description"),
		IsPaid:      c.Bool("paid"),
		PaidAmount:  c.Float64("paid-amount"),
		Date:        date,
	}
	if c.IsSet("due") {
		due, err := parseDay(c, "due", time.Time{})
		if err != nil {
			return err
		}
		ne.DueDate = &due
	}

	expense, err := ec.repository.Create(c.Context, ne)
	if err != nil {
		return fail("AddExpense", err)
	}
	return writeJSON(c, expense)
}

// Update handles `expenses update --id ...`. --clear-due removes the due date.
func (ec *ExpenseController) Update(c *cli.Context) error {
	id, err := requireString(c, "id")
	if err != nil {
		return err
	}

	patch := models.ExpenseUpdate{
		Category:     stringFlag(c, "category"),
		Amount:       floatFlag(c, "amount"),
		Description:  stringFlag(c, "description"),
		IsPaid:       boolFlag(c, "paid"),
		PaidAmount:   floatFlag(c, "paid-amount"),
		ClearDueDate: c.Bool("clear-due"),
	}
	if c.IsSet("date") {
		date, err := parseDay(c, "date", time.Time{})
		if err != nil {
			return err
		}
		patch.Date = &date
	}
	if c.IsSet("due") {
		due, err := parseDay(c, "due", time.Time{})
		if err != nil {
			return err
		}
		patch.DueDate = &due
	}

	expense, err := ec.repository.Update(c.Context, id, patch)
	if err != nil {
		return fail("UpdateExpense", err)
	}
	return writeJSON(c, expense)
}

// Delete handles `expenses delete --id ...`
func (ec *ExpenseController) Delete(c *cli.Context) error {
	id, err := requireString(c, "id")
	if err != nil {
		return err
	}
	deleted, err := ec.repository.Delete(c.Context, id)
	if err != nil {
		return fail("DeleteExpense", err)
	}
	return writeJSON(c, map[string]interface{}{"id": id, "deleted": deleted})
}
