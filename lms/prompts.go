package lms

import (
	"context"
	"fmt"

	"github.com/codersgyan/lms-mcp/schema"
	"github.com/codersgyan/lms-mcp/server"
)

const (
	GreetingPromptName    = "greeting-example"
	StudentListPromptName = "student_list"
)

func registerGreeting(reg *server.Registry) error {
	return reg.Prompt(GreetingPromptName).
		Title("Greeting template").
		Description("A simple greeting prompt template").
		Argument("name", "Name to include in greeting.", true).
		Handler(func(ctx context.Context, args schema.Values) (*server.PromptResult, error) {
			text := fmt.Sprintf("Please greet %s in a friendly manner and say hola everytime.", args.String("name"))
			return &server.PromptResult{
				Messages: []server.PromptMessage{server.UserMessage(text)},
			}, nil
		})
}

// The limit is a free-form string; it is interpolated, not parsed.
func registerStudentList(reg *server.Registry) error {
	return reg.Prompt(StudentListPromptName).
		Title("Student List").
		Description("A simple template to get student list").
		Argument("limit", "The number of students.", true).
		Handler(func(ctx context.Context, args schema.Values) (*server.PromptResult, error) {
			text := fmt.Sprintf("Give me the list of enrolled students in LMS. Give only %s students.", args.String("limit"))
			return &server.PromptResult{
				Messages: []server.PromptMessage{server.UserMessage(text)},
			}, nil
		})
}
