// Command kiosk runs the parking survey wizard in a terminal, for attended
// tablets at facility exits. Answers are drafted to local disk after every
// input, so a wandering visitor can resume where they left off; the draft is
// cleared once the submission lands.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/parkpulse/survey-server/validation"
	"github.com/parkpulse/survey-server/wizard"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "survey server base URL")
	slug := flag.String("slug", "", "location slug (required)")
	draftDir := flag.String("drafts", defaultDraftDir(), "directory for draft files")
	flag.Parse()

	if *slug == "" {
		log.Fatal("missing required -slug")
	}

	store, err := wizard.NewFileStore(*draftDir)
	if err != nil {
		log.Fatalf("draft store: %v", err)
	}

	client := wizard.NewClient(*server)
	ctrl := wizard.NewController(*slug, store, client)

	// Name lookup is cosmetic; run the survey even if it fails.
	title := "Parking Survey"
	if loc, err := client.LookupLocation(context.Background(), *slug); err == nil {
		title = loc.Name + " Parking Survey"
	} else {
		log.Printf("location lookup: %v", err)
	}

	in := bufio.NewScanner(os.Stdin)
	fmt.Println(title)
	fmt.Println(strings.Repeat("=", len(title)))

	for {
		fmt.Printf("\nStep %d of %d\n", ctrl.Step(), wizard.TotalSteps)
		done := runStep(ctrl, in)
		if done {
			return
		}
	}
}

func defaultDraftDir() string {
	cache, err := os.UserCacheDir()
	if err != nil {
		return "drafts"
	}
	return filepath.Join(cache, "parkpulse-kiosk")
}

// runStep shows the current step, applies one command and reports whether the
// session finished. "b" steps back, anything else is an answer attempt.
func runStep(ctrl *wizard.Controller, in *bufio.Scanner) bool {
	switch ctrl.Step() {
	case 1:
		askChoice(ctrl, in, "What type of traveler are you?", validation.TravelerTypes,
			func(v *validation.SurveyInput, s string) { v.TravelerType = s })
	case 2:
		askChoice(ctrl, in, "How do you prefer to park?", validation.ParkingPreferences,
			func(v *validation.SurveyInput, s string) { v.ParkingPreference = s })
	case 3:
		askChoice(ctrl, in, "How often do you park here per month?", validation.UsageFrequencies,
			func(v *validation.SurveyInput, s string) { v.UsageFrequency = s })
	case 4:
		askChoice(ctrl, in, "How did you pay on exit?", validation.ExitMethods,
			func(v *validation.SurveyInput, s string) { v.ExitMethod = s })
	case 5:
		askChoice(ctrl, in, "How long did it take to exit?", validation.ExitTimes,
			func(v *validation.SurveyInput, s string) { v.ExitTime = s })
	case 6:
		askCashier(ctrl, in)
	case 7:
		askRatings(ctrl, in)
	case 8:
		askRating(ctrl, in, "Rate your overall experience (1-4)",
			func(v *validation.SurveyInput, n int) { v.OverallExperience = n })
	case 9:
		askComments(ctrl, in)
	case 10:
		return askContactAndSubmit(ctrl, in)
	}
	return false
}

func prompt(in *bufio.Scanner, label string) (string, bool) {
	fmt.Printf("%s (b = back): ", label)
	if !in.Scan() {
		os.Exit(0)
	}
	answer := strings.TrimSpace(in.Text())
	if strings.EqualFold(answer, "b") {
		return "", true
	}
	return answer, false
}

func showErrors(errs validation.FieldErrors) {
	for _, msg := range errs {
		fmt.Println("  !", msg)
	}
}

func askChoice(ctrl *wizard.Controller, in *bufio.Scanner, question string, options []string, set func(*validation.SurveyInput, string)) {
	fmt.Println(question)
	for i, opt := range options {
		fmt.Printf("  %d) %s\n", i+1, opt)
	}
	answer, back := prompt(in, "Choice")
	if back {
		ctrl.Back()
		return
	}
	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(options) {
		picked := options[n-1]
		ctrl.Update(func(v *validation.SurveyInput) { set(v, picked) })
	}
	if errs := ctrl.Continue(); errs != nil {
		showErrors(errs)
	}
}

func askCashier(ctrl *wizard.Controller, in *bufio.Scanner) {
	// Only meaningful after a cashier exit; either way the step has no gate.
	if ctrl.Input().ExitMethod == "cashier" {
		answer, back := prompt(in, "Was the cashier efficient? (y/n/skip)")
		if back {
			ctrl.Back()
			return
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			ctrl.Update(func(v *validation.SurveyInput) { b := true; v.CashierEfficient = &b })
		case "n", "no":
			ctrl.Update(func(v *validation.SurveyInput) { b := false; v.CashierEfficient = &b })
		}
	}
	ctrl.Continue()
}

func askRating(ctrl *wizard.Controller, in *bufio.Scanner, question string, set func(*validation.SurveyInput, int)) {
	answer, back := prompt(in, question)
	if back {
		ctrl.Back()
		return
	}
	if n, err := strconv.Atoi(answer); err == nil {
		ctrl.Update(func(v *validation.SurveyInput) { set(v, n) })
	}
	if errs := ctrl.Continue(); errs != nil {
		showErrors(errs)
	}
}

func askRatings(ctrl *wizard.Controller, in *bufio.Scanner) {
	fmt.Println("Rate cleanliness from 1 (poor) to 4 (excellent)")
	labels := []struct {
		name string
		set  func(*validation.SurveyInput, int)
	}{
		{"Parking surface", func(v *validation.SurveyInput, n int) { v.CleanlinessSurface = n }},
		{"Stairwells", func(v *validation.SurveyInput, n int) { v.CleanlinessStairs = n }},
		{"Elevators", func(v *validation.SurveyInput, n int) { v.CleanlinessElevators = n }},
	}
	for _, l := range labels {
		answer, back := prompt(in, l.name)
		if back {
			ctrl.Back()
			return
		}
		if n, err := strconv.Atoi(answer); err == nil {
			ctrl.Update(func(v *validation.SurveyInput) { l.set(v, n) })
		}
	}
	if errs := ctrl.Continue(); errs != nil {
		showErrors(errs)
	}
}

func askComments(ctrl *wizard.Controller, in *bufio.Scanner) {
	answer, back := prompt(in, "Any comments? (enter to skip)")
	if back {
		ctrl.Back()
		return
	}
	if answer != "" {
		ctrl.Update(func(v *validation.SurveyInput) { v.Comments = answer })
	}
	ctrl.Continue()
}

func askContactAndSubmit(ctrl *wizard.Controller, in *bufio.Scanner) bool {
	first, back := prompt(in, "First name")
	if back {
		ctrl.Back()
		return false
	}
	phone, back := prompt(in, "Phone (enter to skip)")
	if back {
		ctrl.Back()
		return false
	}
	email, back := prompt(in, "Email (enter to skip)")
	if back {
		ctrl.Back()
		return false
	}

	ctrl.Update(func(v *validation.SurveyInput) {
		v.FirstName = first
		v.Phone = phone
		v.Email = email
	})

	errs, err := ctrl.Submit(context.Background())
	if errs != nil {
		showErrors(errs)
		return false
	}
	if err != nil {
		fmt.Println("  ! Failed to submit survey. Please try again.")
		log.Printf("submit: %v", err)
		return false
	}

	fmt.Println("\nThank you! Your feedback was recorded.")
	return true
}
