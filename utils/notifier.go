package utils

import (
	"learnhub/database"
	"learnhub/models"
	"learnhub/models/catalog"
	"learnhub/models/community"
	"log"
)

// EmailNotifier implements the optional notification hooks of the commerce,
// progress and community services. Lookups and sends are best effort; a
// notification failure never fails the triggering operation.
type EmailNotifier struct{}

func (EmailNotifier) EnrollmentActivated(userID, programID uint) {
	user, program, ok := lookupUserProgram(userID, programID)
	if !ok {
		return
	}
	SendEnrollmentActivatedEmail(user.Email, user.Name, program.Name)
}

func (EmailNotifier) CertificateIssued(userID, programID uint, url string) {
	user, program, ok := lookupUserProgram(userID, programID)
	if !ok {
		return
	}
	SendCertificateIssuedEmail(user.Email, user.Name, program.Name, url)
}

func (EmailNotifier) PostPublished(postID uint) {
	db := database.Database.Db

	var post community.BlogPost
	if err := db.First(&post, postID).Error; err != nil {
		log.Printf("[NOTIFIER] post %d not found: %v", postID, err)
		return
	}
	var user models.User
	if err := db.First(&user, post.StudentID).Error; err != nil {
		log.Printf("[NOTIFIER] user %d not found: %v", post.StudentID, err)
		return
	}
	SendPostPublishedEmail(user.Email, user.Name, post.Title)
}

func lookupUserProgram(userID, programID uint) (*models.User, *catalog.Program, bool) {
	db := database.Database.Db

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		log.Printf("[NOTIFIER] user %d not found: %v", userID, err)
		return nil, nil, false
	}
	var program catalog.Program
	if err := db.First(&program, programID).Error; err != nil {
		log.Printf("[NOTIFIER] program %d not found: %v", programID, err)
		return nil, nil, false
	}
	return &user, &program, true
}
