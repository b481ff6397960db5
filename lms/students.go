package lms

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/codersgyan/lms-mcp/middleware"
	"github.com/codersgyan/lms-mcp/schema"
	"github.com/codersgyan/lms-mcp/server"
)

const StudentsToolName = "get_all_students"

// DateLayout is the format of Student.JoinedAt.
const DateLayout = "2006-01-02"

// Student is one enrolled learner.
type Student struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	JoinedAt string `json:"joinedAt"`
}

type enrollment int

const (
	today enrollment = iota
	yesterday
	lastWeek
	lastMonth
)

var daysAgo = map[enrollment]int{
	today:     0,
	yesterday: 1,
	lastWeek:  7,
	lastMonth: 30,
}

var roster = []struct {
	id, name, email string
	joined          enrollment
}{
	{"STU001", "Rahul Sharma", "rahul.sharma@gmail.com", lastMonth},
	{"STU002", "Priya Patel", "priya.patel@gmail.com", lastMonth},
	{"STU003", "Amit Kumar", "amit.kumar@gmail.com", lastWeek},
	{"STU004", "Sneha Gupta", "sneha.gupta@gmail.com", lastWeek},
	{"STU005", "Vikram Singh", "vikram.singh@gmail.com", yesterday},
	{"STU006", "Anjali Verma", "anjali.verma@gmail.com", yesterday},
	{"STU007", "Rohan Desai", "rohan.desai@gmail.com", today},
	{"STU008", "Kavita Reddy", "kavita.reddy@gmail.com", today},
	{"STU009", "Arjun Nair", "arjun.nair@gmail.com", today},
	{"STU010", "Meera Joshi", "meera.joshi@gmail.com", lastWeek},
	{"STU011", "Sanjay Mishra", "sanjay.mishra@gmail.com", lastMonth},
	{"STU012", "Divya Saxena", "divya.saxena@gmail.com", today},
}

// Students returns the full roster with enrollment dates relative to now,
// computed in UTC in whole 24 hour steps.
func Students(now time.Time) []Student {
	now = now.UTC()
	out := make([]Student, len(roster))
	for i, r := range roster {
		joined := now.Add(-time.Duration(daysAgo[r.joined]) * 24 * time.Hour)
		out[i] = Student{
			ID:       r.id,
			Name:     r.name,
			Email:    r.email,
			JoinedAt: joined.Format(DateLayout),
		}
	}
	return out
}

// firstN returns at most limit students, truncating fractional limits
// toward zero. Negative limits never reach here; the schema rejects them.
func firstN(students []Student, limit float64) []Student {
	if limit >= float64(len(students)) {
		return students
	}
	return students[:int(limit)]
}

func registerStudentsTool(reg *server.Registry, now func() time.Time) error {
	return reg.Tool(StudentsToolName).
		Description("Get list of all students with their enrollment information.").
		Input(schema.Optional(schema.Num("limit", "Maximum number of students to return.").Min(0))).
		ReadOnly().
		Idempotent().
		ClosedWorld().
		Handler(func(ctx context.Context, args schema.Values) (*server.ToolResult, error) {
			students := Students(now())
			if limit, ok := args.Number("limit"); ok {
				students = firstN(students, limit)
			}

			data, err := json.Marshal(students)
			if err != nil {
				return nil, fmt.Errorf("encode students: %w", err)
			}
			middleware.AddSpanEvent(ctx, "students.listed", attribute.Int("count", len(students)))
			return server.TextResult(string(data)), nil
		})
}
