// Package student contains the student entity of the roster.
//
// A Student has two equality notions and they must not be confused:
//
//   - IsSame ("same student"): same name and the same phone or email. The
//     roster uses it to reject duplicates on add and edit.
//   - Equal: every field including the ID. The roster uses it to locate the
//     exact element to replace or remove, and history uses it to compare
//     snapshots.
//
// Creating a student:
//
//	s, err := student.NewStudent(student.NewStudentParams{
//	    Name:  "Alex Yeoh",
//	    Phone: "87438807",
//	    Email: "alexyeoh@example.com",
//	    Tags:  []string{"friends"},
//	})
//
// Editing keeps the ID:
//
//	params := s.Params()
//	params.Phone = "91234567"
//	edited, err := student.Restore(s.ID, params)
package student
