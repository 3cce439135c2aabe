package service

import (
	"encoding/json"
	"fmt"
	"log"

	"delaurel.com/schoolportal/internal/model"
	"github.com/meilisearch/meilisearch-go"
)

const studentIndex = "students"

// StudentDoc is the searchable projection of a student account.
type StudentDoc struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	StudentID  string `json:"student_id"`
	ClassLevel string `json:"class_level"`
	Branch     string `json:"branch"`
}

type SearchService interface {
	IndexStudent(user *model.User) error
	DeleteStudent(id string) error
	SearchStudents(query string, limit int64) ([]StudentDoc, error)
}

type meiliSearchService struct {
	client meilisearch.ServiceManager
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &meiliSearchService{client: client}
	s.initIndexes()
	return s
}

func (s *meiliSearchService) initIndexes() {
	filterableAttrs := []string{"class_level", "branch"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	if _, err := s.client.Index(studentIndex).UpdateFilterableAttributes(&filterableInterface); err != nil {
		log.Printf("Failed to update students filterable attributes: %v", err)
	}

	sortableAttrs := []string{"name"}
	if _, err := s.client.Index(studentIndex).UpdateSortableAttributes(&sortableAttrs); err != nil {
		log.Printf("Failed to update students sortable attributes: %v", err)
	}
}

func (s *meiliSearchService) IndexStudent(user *model.User) error {
	if user.StudentProfile == nil {
		return fmt.Errorf("user %s has no student profile", user.ID)
	}

	doc := StudentDoc{
		ID:         user.ID.String(),
		Name:       user.Name,
		Email:      user.Email,
		StudentID:  user.StudentProfile.StudentID,
		ClassLevel: user.StudentProfile.ClassLevel,
		Branch:     user.StudentProfile.Branch,
	}

	primaryKey := "id"
	_, err := s.client.Index(studentIndex).AddDocuments([]StudentDoc{doc}, &primaryKey)
	return err
}

func (s *meiliSearchService) DeleteStudent(id string) error {
	_, err := s.client.Index(studentIndex).DeleteDocument(id)
	return err
}

func (s *meiliSearchService) SearchStudents(query string, limit int64) ([]StudentDoc, error) {
	if limit <= 0 {
		limit = 20
	}

	resp, err := s.client.Index(studentIndex).Search(query, &meilisearch.SearchRequest{
		Limit: limit,
	})
	if err != nil {
		return nil, fmt.Errorf("student search failed: %w", err)
	}

	docs := make([]StudentDoc, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		raw, err := json.Marshal(hit)
		if err != nil {
			continue
		}
		var doc StudentDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		docs = append(docs, doc)
	}

	return docs, nil
}
