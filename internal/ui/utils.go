package ui

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fieldvision/fieldvision-api-poc/internal/sentinel"
)

// Colors for consistent UI
const (
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorReset  = "\033[0m"
)

// PrintWarning displays a warning message with consistent formatting
func PrintWarning(message string) {
	fmt.Printf("%s\nWarning:%s\n", ColorYellow, ColorReset)
	fmt.Printf("%s%s%s\n", ColorYellow, message, ColorReset)
}

// PrintError displays an error message with consistent formatting
func PrintError(message string) {
	fmt.Printf("\n%sError: %s%s\n", ColorRed, message, ColorReset)
}

// PrintSuccess displays a success message with consistent formatting
func PrintSuccess(message string) {
	fmt.Printf("\n%s%s%s\n", ColorGreen, message, ColorReset)
}

// PrintInfo displays an info message with consistent formatting
func PrintInfo(message string) {
	fmt.Printf("%s%s%s", ColorBlue, message, ColorReset)
}

// ReadString reads a string from stdin with trimming
func ReadString(prompt string) string {
	reader := bufio.NewReader(os.Stdin)
	PrintInfo(prompt)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// ReadInt reads an integer from stdin with validation
func ReadInt(prompt string, min, max int) (int, error) {
	PrintInfo(prompt)
	var input string
	fmt.Scanln(&input)
	input = strings.TrimSpace(input)

	value, err := strconv.Atoi(input)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s", input)
	}

	if value < min || value > max {
		return 0, fmt.Errorf("value must be between %d and %d", min, max)
	}

	return value, nil
}

// ReadDate reads a date from stdin with validation
func ReadDate(prompt string) (time.Time, error) {
	input := ReadString(prompt)
	if input == "today" {
		return time.Now(), nil
	}
	date, err := time.Parse("2006-01-02", input)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s. Please use YYYY-MM-DD", input)
	}
	return date, nil
}

// ReadFarmAndField reads farm and field information
func ReadFarmAndField() (string, string, error) {
	PrintInfo("Available farms: ")
	ListFarms()
	farm := ReadString("Enter the farm name: ")
	PrintInfo("Available fields: ")
	ListFields(farm)
	field := ReadString("Enter the field id: ")

	if farm == "" || field == "" {
		return "", "", fmt.Errorf("farm name and field id cannot be empty")
	}

	return farm, field, nil
}

// ReadIndexType displays the available vegetation indices and returns the
// selected one.
func ReadIndexType() (sentinel.IndexType, error) {
	fmt.Printf("%s\nAvailable indices:%s\n", ColorGreen, ColorReset)
	for i, indexType := range sentinel.IndexTypes {
		fmt.Printf("%s%d. %s%s\n", ColorGreen, i+1, indexType, ColorReset)
	}

	choice, err := ReadInt("Enter the number of the index you want to use: ", 1, len(sentinel.IndexTypes))
	if err != nil {
		return 0, err
	}

	selected := sentinel.IndexTypes[choice-1]
	fmt.Printf("%sYou selected the index: %s%s\n", ColorGreen, selected, ColorReset)
	return selected, nil
}
