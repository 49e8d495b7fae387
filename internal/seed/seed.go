// Package seed provides database seeding utilities for development and
// testing.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"campushub/internal/models"
	"campushub/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers   int
	NumCourses int
	NumPosts   int
}

// Seeder populates the database with plausible campus data. Enrollment goes
// through the enrollment repository so the denormalized course id lists stay
// consistent with the relation.
type Seeder struct {
	db         *gorm.DB
	enrollRepo repository.EnrollmentRepository
	rng        *rand.Rand
}

// NewSeeder creates a Seeder bound to the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:         db,
		enrollRepo: repository.NewEnrollmentRepository(db),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded rows. Join tables go first so foreign keys
// never dangle mid-clean.
func (s *Seeder) ClearAll() error {
	tables := []any{
		&models.CommentLike{},
		&models.PostLike{},
		&models.Enrollment{},
		&models.PostComment{},
		&models.Post{},
		&models.CourseComment{},
		&models.Homework{},
		&models.ClassTime{},
		&models.Course{},
		&models.User{},
	}
	for _, table := range tables {
		if err := s.db.Unscoped().Where("1 = 1").Delete(table).Error; err != nil {
			return fmt.Errorf("clearing %T: %w", table, err)
		}
	}
	return nil
}

// Run seeds users, courses, enrollments and feed activity.
func (s *Seeder) Run(opts Options) error {
	users, err := s.seedUsers(opts.NumUsers)
	if err != nil {
		return err
	}
	courses, err := s.seedCourses(opts.NumCourses)
	if err != nil {
		return err
	}
	if err := s.seedEnrollments(users, courses); err != nil {
		return err
	}
	if err := s.seedFeed(users, opts.NumPosts); err != nil {
		return err
	}
	if err := s.seedCourseRatings(users, courses); err != nil {
		return err
	}

	log.Printf("Seeded %d users, %d courses, %d posts", len(users), len(courses), opts.NumPosts)
	return nil
}

func (s *Seeder) seedUsers(n int) ([]*models.User, error) {
	// One shared hash keeps seeding fast; every seeded account logs in with
	// the same development password.
	hash, err := bcrypt.GenerateFromPassword([]byte("Seeded!Passw0rd"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	genders := []models.Gender{models.GenderFemale, models.GenderMale, models.GenderOther, models.GenderUnspecified}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user := &models.User{
			Username:  fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:     fmt.Sprintf("student%d@campus.edu", i),
			Password:  string(hash),
			Gender:    genders[s.rng.Intn(len(genders))],
			AvatarRef: fmt.Sprintf("avatars/%s.png", gofakeit.UUID()),
		}
		if err := s.db.Create(user).Error; err != nil {
			return nil, fmt.Errorf("seeding user %d: %w", i, err)
		}
		users = append(users, user)
	}
	return users, nil
}

var subjects = []string{
	"Algorithms", "Operating Systems", "Databases", "Linear Algebra",
	"Distributed Systems", "Compilers", "Computer Networks", "Statistics",
	"Machine Learning", "Software Engineering",
}

func (s *Seeder) seedCourses(n int) ([]*models.Course, error) {
	courses := make([]*models.Course, 0, n)
	for i := 0; i < n; i++ {
		subject := subjects[i%len(subjects)]
		course := &models.Course{
			Name:        fmt.Sprintf("%s %d", subject, 100+i),
			Professor:   fmt.Sprintf("Prof. %s", gofakeit.LastName()),
			Code:        fmt.Sprintf("CS-%03d", 100+i),
			Credits:     2 + s.rng.Intn(4),
			Description: gofakeit.Paragraph(1, 2, 8, " "),
		}
		if err := s.db.Create(course).Error; err != nil {
			return nil, fmt.Errorf("seeding course %d: %w", i, err)
		}

		for slot := 0; slot < 1+s.rng.Intn(2); slot++ {
			hour := 8 + s.rng.Intn(10)
			ct := &models.ClassTime{
				CourseID:  course.ID,
				DayOfWeek: 1 + s.rng.Intn(7),
				StartsAt:  fmt.Sprintf("%02d:00", hour),
				EndsAt:    fmt.Sprintf("%02d:30", hour+1),
				Location:  fmt.Sprintf("%s-%d", string(rune('A'+s.rng.Intn(4))), 100+s.rng.Intn(300)),
			}
			if err := s.db.Create(ct).Error; err != nil {
				return nil, err
			}
		}

		for hw := 0; hw < 1+s.rng.Intn(3); hw++ {
			homework := &models.Homework{
				CourseID:    course.ID,
				Title:       fmt.Sprintf("Assignment %d", hw+1),
				Description: gofakeit.Sentence(10),
				// Deadlines spread from two days ago to three weeks out so
				// the due-soon view always has content.
				DueAt: time.Now().Add(time.Duration(s.rng.Intn(23*24)-2*24) * time.Hour),
			}
			if err := s.db.Create(homework).Error; err != nil {
				return nil, err
			}
		}
		courses = append(courses, course)
	}
	return courses, nil
}

func (s *Seeder) seedEnrollments(users []*models.User, courses []*models.Course) error {
	if len(courses) == 0 {
		return nil
	}
	ctx := context.Background()
	for _, user := range users {
		count := 1 + s.rng.Intn(4)
		for i := 0; i < count; i++ {
			course := courses[s.rng.Intn(len(courses))]
			if err := s.enrollRepo.Enroll(ctx, user.ID, course.ID); err != nil {
				return fmt.Errorf("enrolling %s in %s: %w", user.Username, course.Name, err)
			}
		}
	}
	return nil
}

func (s *Seeder) seedFeed(users []*models.User, numPosts int) error {
	if len(users) == 0 {
		return nil
	}
	for i := 0; i < numPosts; i++ {
		author := users[s.rng.Intn(len(users))]
		post := &models.Post{
			AuthorID:  author.ID,
			Title:     gofakeit.Sentence(5),
			Content:   gofakeit.Paragraph(1, 3, 10, "\n"),
			CreatedAt: time.Now().Add(-time.Duration(s.rng.Intn(60*24)) * time.Hour),
		}
		if s.rng.Intn(3) == 0 {
			post.ImageRef = fmt.Sprintf("images/%s.jpg", gofakeit.UUID())
		}
		if err := s.db.Create(post).Error; err != nil {
			return fmt.Errorf("seeding post %d: %w", i, err)
		}

		for c := 0; c < s.rng.Intn(4); c++ {
			comment := &models.PostComment{
				PostID:   post.ID,
				AuthorID: users[s.rng.Intn(len(users))].ID,
				Content:  gofakeit.Sentence(8),
			}
			if err := s.db.Create(comment).Error; err != nil {
				return err
			}
		}

		for l := 0; l < s.rng.Intn(5); l++ {
			like := models.PostLike{
				UserID: users[s.rng.Intn(len(users))].ID,
				PostID: post.ID,
			}
			// FirstOrCreate absorbs duplicate userID draws
			if err := s.db.Where("user_id = ? AND post_id = ?", like.UserID, like.PostID).
				FirstOrCreate(&like).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) seedCourseRatings(users []*models.User, courses []*models.Course) error {
	if len(users) == 0 {
		return nil
	}
	for _, course := range courses {
		for i := 0; i < s.rng.Intn(4); i++ {
			comment := &models.CourseComment{
				CourseID: course.ID,
				AuthorID: users[s.rng.Intn(len(users))].ID,
				Content:  gofakeit.Sentence(12),
				Rating:   1 + s.rng.Intn(5),
			}
			if err := s.db.Create(comment).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
