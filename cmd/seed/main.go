package main

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"worktide/internal/config"
	"worktide/internal/database"
	"worktide/internal/domain/chat"
	"worktide/internal/domain/notification"
	"worktide/internal/domain/rating"
	"worktide/internal/domain/recommend"
	"worktide/internal/domain/task"
	"worktide/internal/domain/user"
	"worktide/internal/server"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := server.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (children first)
	log.Println("Cleaning old data...")
	for _, table := range []string{"uploads", "notifications", "messages", "ratings", "task_requests", "applications", "tasks", "users"} {
		db.Exec("DELETE FROM " + table)
	}

	// ================== USERS ==================
	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := user.User{
		Email:        "admin@worktide.dev",
		PasswordHash: string(adminHash),
		Role:         user.RoleAdmin,
		Name:         "Moderator",
	}
	db.Create(&admin)
	log.Println("Admin created: admin@worktide.dev / admin123")

	clientHash, _ := bcrypt.GenerateFromPassword([]byte("client123"), bcrypt.DefaultCost)
	clients := []user.User{}
	for i, email := range []string{"olivia@acme.test", "marcus@northwind.test", "priya@globex.test"} {
		client := user.User{
			Email:        email,
			PasswordHash: string(clientHash),
			Role:         user.RoleClient,
			Name:         fmt.Sprintf("Client %d", i+1),
		}
		db.Create(&client)
		clients = append(clients, client)
	}

	freelancerHash, _ := bcrypt.GenerateFromPassword([]byte("freelancer123"), bcrypt.DefaultCost)
	profiles := []struct {
		email  string
		name   string
		skills []string
		rate   float64
	}{
		{"dev.anna@mail.test", "Anna Kowalski", []string{"go", "postgresql", "docker"}, 55},
		{"tom.ui@mail.test", "Tom Reyes", []string{"react", "typescript", "figma"}, 45},
		{"li.data@mail.test", "Li Wei", []string{"python", "postgresql", "airflow"}, 60},
		{"sam.full@mail.test", "Sam Okafor", []string{"go", "react", "aws"}, 70},
		{"eva.design@mail.test", "Eva Lindqvist", []string{"figma", "illustration"}, 40},
	}
	freelancers := []user.User{}
	for _, p := range profiles {
		f := user.User{
			Email:        p.email,
			PasswordHash: string(freelancerHash),
			Role:         user.RoleFreelancer,
			Name:         p.name,
			Bio:          "Available for remote contracts",
			Skills:       p.skills,
			HourlyRate:   p.rate,
		}
		db.Create(&f)
		freelancers = append(freelancers, f)
	}

	// ================== TASKS ==================
	log.Println("Creating tasks...")
	briefs := []struct {
		title  string
		skills []string
		budget float64
	}{
		{"REST API for inventory service", []string{"go", "postgresql"}, 1800},
		{"Landing page redesign", []string{"figma", "react"}, 900},
		{"ETL pipeline for sales data", []string{"python", "airflow"}, 1500},
		{"Dockerize legacy app", []string{"docker", "aws"}, 600},
		{"Mascot illustration", []string{"illustration"}, 300},
	}
	tasks := make([]task.Task, 0, len(briefs))
	for i, b := range briefs {
		deadline := time.Now().AddDate(0, 0, 14+i*7)
		t := task.Task{
			ClientID:    clients[i%len(clients)].ID,
			Title:       b.title,
			Description: "See attached brief. " + b.title + ".",
			Budget:      b.budget,
			Skills:      b.skills,
			Status:      task.StatusOpen,
			Deadline:    &deadline,
		}
		db.Create(&t)
		tasks = append(tasks, t)
	}

	// ================== APPLICATIONS ==================
	log.Println("Creating applications...")
	for _, t := range tasks {
		for _, f := range freelancers {
			if recommend.Overlap(t.Skills, f.Skills) == 0 || rand.Intn(3) == 0 {
				continue
			}
			db.Create(&task.Application{
				TaskID:         t.ID,
				FreelancerID:   f.ID,
				CoverLetter:    fmt.Sprintf("Hi, I'm %s and I have done similar work before.", f.Name),
				ProposedBudget: t.Budget * (0.8 + rand.Float64()*0.3),
				Status:         task.ApplicationPending,
			})
			db.Create(&notification.Notification{
				UserID:    t.ClientID,
				Type:      notification.TypeApplicationReceived,
				Title:     "New application",
				Message:   fmt.Sprintf("%s applied to %q", f.Name, t.Title),
				RelatedID: t.ID,
			})
		}
	}

	// ================== INVITATIONS ==================
	log.Println("Creating task requests...")
	invited := tasks[1]
	tom := freelancers[1]
	db.Create(&task.TaskRequest{
		TaskID:       invited.ID,
		ClientID:     invited.ClientID,
		FreelancerID: tom.ID,
		Message:      "Your portfolio looks like a great fit, interested?",
		Status:       task.RequestPending,
	})
	db.Model(&task.Task{}).Where("id = ?", invited.ID).Update("status", task.StatusPending)
	db.Create(&notification.Notification{
		UserID:    tom.ID,
		Type:      notification.TypeRequestReceived,
		Title:     "You were invited to a task",
		Message:   fmt.Sprintf("You were invited to %q", invited.Title),
		RelatedID: invited.ID,
	})

	// ================== COMPLETED TASK + RATINGS ==================
	log.Println("Creating completed task history...")
	done := tasks[0]
	anna := freelancers[0]
	db.Model(&task.Task{}).Where("id = ?", done.ID).Updates(map[string]any{
		"status":        task.StatusCompleted,
		"freelancer_id": anna.ID,
	})
	db.Create(&rating.Rating{TaskID: done.ID, RaterID: done.ClientID, RateeID: anna.ID, Score: 5, Comment: "Delivered ahead of schedule"})
	db.Create(&rating.Rating{TaskID: done.ID, RaterID: anna.ID, RateeID: done.ClientID, Score: 5, Comment: "Clear requirements"})
	db.Model(&user.User{}).Where("id = ?", anna.ID).Updates(map[string]any{"rating": 5.0, "rating_count": 1, "completed_jobs": 1})
	db.Model(&user.User{}).Where("id = ?", done.ClientID).Updates(map[string]any{"rating": 5.0, "rating_count": 1})

	// ================== MESSAGES ==================
	log.Println("Creating conversations...")
	lines := []string{
		"Hi! Thanks for picking my application.",
		"Great, can you start on Monday?",
		"Yes, I'll send a first draft by Wednesday.",
		"Perfect, talk soon.",
	}
	start := time.Now().Add(-48 * time.Hour)
	for i, text := range lines {
		sender, receiver := anna.ID, done.ClientID
		if i%2 == 1 {
			sender, receiver = receiver, sender
		}
		db.Create(&chat.Message{
			ID:          uuid.Must(uuid.NewV7()).String(),
			SenderID:    sender,
			ReceiverID:  receiver,
			Content:     text,
			Attachments: []chat.Attachment{},
			CreatedAt:   start.Add(time.Duration(i) * time.Hour),
		})
	}
	db.Create(&chat.Message{
		ID:          uuid.Must(uuid.NewV7()).String(),
		SenderID:    chat.SystemSenderID,
		ReceiverID:  anna.ID,
		Content:     "Welcome to WorkTide! Complete your profile to get better task recommendations.",
		Attachments: []chat.Attachment{},
		IsSystem:    true,
	})

	log.Println("Seed completed")
	log.Println("Clients: client123 | Freelancers: freelancer123 | Admin: admin123")
}

