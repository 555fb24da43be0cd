// Package docs registers the swagger document served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {"tags": ["system"], "summary": "Проверка доступности БД", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        },
        "/api/v1/auth/register": {
            "post": {"tags": ["auth"], "summary": "Регистрация", "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.RegisterRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.TokenResponse"}}, "409": {"description": "Email уже занят"}}}
        },
        "/api/v1/auth/login": {
            "post": {"tags": ["auth"], "summary": "Вход", "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.LoginRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.TokenResponse"}}, "401": {"description": "Unauthorized"}}}
        },
        "/api/v1/auth/refresh": {
            "post": {"tags": ["auth"], "summary": "Обновить токены", "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.RefreshTokenRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.TokenResponse"}}, "401": {"description": "Unauthorized"}}}
        },
        "/api/v1/auth/logout": {
            "post": {"tags": ["auth"], "summary": "Выход", "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.RefreshTokenRequest"}}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/reviews": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["reviews"], "summary": "Создать отзыв", "consumes": ["application/json", "multipart/form-data"], "parameters": [{"in": "body", "name": "review", "required": true, "schema": {"$ref": "#/definitions/dto.ReviewRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.CreateReviewResponse"}}, "404": {"description": "Пользователь или ресторан не найден"}, "409": {"description": "Отзыв уже существует"}}}
        },
        "/api/v1/reviews/images": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["reviews"], "summary": "Загрузить картинки для отзыва", "consumes": ["multipart/form-data"], "parameters": [{"type": "file", "in": "formData", "name": "images", "required": true}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.ImageUploadResponse"}}, "413": {"description": "Файл слишком большой"}, "415": {"description": "Неподдерживаемый тип"}}}
        },
        "/api/v1/reviews/{reviewId}": {
            "get": {"tags": ["reviews"], "summary": "Получить отзыв", "parameters": [{"type": "string", "in": "path", "name": "reviewId", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ReviewResponse"}}, "404": {"description": "Not Found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["reviews"], "summary": "Изменить отзыв (только автор)", "parameters": [{"type": "string", "in": "path", "name": "reviewId", "required": true}, {"in": "body", "name": "review", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateReviewRequest"}}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["reviews"], "summary": "Удалить отзыв (только автор)", "parameters": [{"type": "string", "in": "path", "name": "reviewId", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/users/me/reviews": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["reviews"], "summary": "Мои отзывы", "parameters": [{"type": "integer", "in": "query", "name": "page"}, {"type": "integer", "in": "query", "name": "page_size"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ReviewListResponse"}}}}
        },
        "/api/v1/users/me/visited": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["reviews"], "summary": "Рестораны, где я оставил отзыв", "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.VisitedResponse"}}}}}
        },
        "/api/v1/restaurants": {
            "get": {"tags": ["restaurants"], "summary": "Рестораны рядом с точкой", "parameters": [{"type": "number", "in": "query", "name": "x", "required": true}, {"type": "number", "in": "query", "name": "y", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.RestaurantListResponse"}}, "400": {"description": "Bad Request"}}}
        },
        "/api/v1/restaurants/{restoId}/similar": {
            "get": {"tags": ["restaurants"], "summary": "Рестораны, которые оценивали те же пользователи", "parameters": [{"type": "string", "in": "path", "name": "restoId", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.RestaurantListResponse"}}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/restaurants/{restoId}": {
            "get": {"tags": ["restaurants"], "summary": "Ресторан с рейтингом", "parameters": [{"type": "string", "in": "path", "name": "restoId", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.RestaurantResponse"}}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/restaurants/{restoId}/reviews": {
            "get": {"tags": ["restaurants"], "summary": "Отзывы ресторана", "parameters": [{"type": "string", "in": "path", "name": "restoId", "required": true}, {"type": "integer", "in": "query", "name": "page"}, {"type": "integer", "in": "query", "name": "page_size"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ReviewListResponse"}}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/restaurants/{restoId}/rating": {
            "get": {"tags": ["restaurants"], "summary": "Рейтинг ресторана", "parameters": [{"type": "string", "in": "path", "name": "restoId", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.RatingResponse"}}, "404": {"description": "Not Found"}}}
        },
        "/user/{userId}": {
            "get": {"tags": ["user"], "summary": "Профиль пользователя", "parameters": [{"type": "string", "in": "path", "name": "userId", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.UserInfoResponse"}}, "400": {"description": "Fail", "schema": {"$ref": "#/definitions/dto.BaseResponse"}}}}
        },
        "/user": {
            "patch": {"security": [{"BearerAuth": []}], "tags": ["user"], "summary": "Изменить профиль", "parameters": [{"in": "body", "name": "user", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateUserRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.LoginResponse"}}, "400": {"description": "Fail", "schema": {"$ref": "#/definitions/dto.BaseResponse"}}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["user"], "summary": "Удалить аккаунт", "responses": {"200": {"description": "Success", "schema": {"$ref": "#/definitions/dto.BaseResponse"}}}}
        }
    },
    "definitions": {
        "dto.RegisterRequest": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}, "nickname": {"type": "string"}, "gender": {"type": "string"}, "ageRange": {"type": "string"}}},
        "dto.LoginRequest": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "dto.RefreshTokenRequest": {"type": "object", "properties": {"refresh_token": {"type": "string"}}},
        "dto.TokenResponse": {"type": "object", "properties": {"access_token": {"type": "string"}, "refresh_token": {"type": "string"}, "token_type": {"type": "string"}, "expires_in": {"type": "integer"}, "user_id": {"type": "string"}}},
        "dto.ReviewRequest": {"type": "object", "properties": {"restoId": {"type": "string"}, "content": {"type": "string"}, "rating": {"type": "integer"}, "imageUrls": {"type": "array", "items": {"type": "string"}}}},
        "dto.UpdateReviewRequest": {"type": "object", "properties": {"content": {"type": "string"}, "rating": {"type": "integer"}}},
        "dto.CreateReviewResponse": {"type": "object", "properties": {"reviewId": {"type": "string"}}},
        "dto.ImageUploadResponse": {"type": "object", "properties": {"imageUrls": {"type": "array", "items": {"type": "string"}}}},
        "dto.ReviewResponse": {"type": "object", "properties": {"reviewId": {"type": "string"}, "imageUrl": {"type": "array", "items": {"type": "string"}}, "content": {"type": "string"}, "rating": {"type": "integer"}, "regdate": {"type": "string"}, "nickname": {"type": "string"}, "restoName": {"type": "string"}}},
        "dto.ReviewListResponse": {"type": "object", "properties": {"reviews": {"type": "array", "items": {"$ref": "#/definitions/dto.ReviewResponse"}}, "total": {"type": "integer"}, "page": {"type": "integer"}, "page_size": {"type": "integer"}}},
        "dto.RatingResponse": {"type": "object", "properties": {"average_rating": {"type": "number"}, "total_reviews": {"type": "integer"}, "rating_breakdown": {"type": "object", "additionalProperties": {"type": "integer"}}}},
        "dto.VisitedResponse": {"type": "object"},
        "dto.RestaurantResponse": {"type": "object"},
        "dto.RestaurantSummary": {"type": "object", "properties": {"restoId": {"type": "string"}, "restoName": {"type": "string"}, "address": {"type": "string"}, "category": {"type": "string"}, "locationX": {"type": "number"}, "locationY": {"type": "number"}, "averageRating": {"type": "number"}, "reviewCount": {"type": "integer"}, "sharedReviewers": {"type": "integer"}}},
        "dto.RestaurantListResponse": {"type": "object", "properties": {"restaurants": {"type": "array", "items": {"$ref": "#/definitions/dto.RestaurantSummary"}}, "total": {"type": "integer"}}},
        "dto.UserInfoResponse": {"type": "object"},
        "dto.UpdateUserRequest": {"type": "object", "properties": {"nickname": {"type": "string"}, "gender": {"type": "string"}, "ageRange": {"type": "string"}, "bio": {"type": "string"}, "profileImageUrl": {"type": "string"}}},
        "dto.BaseResponse": {"type": "object", "properties": {"statusCode": {"type": "integer"}, "message": {"type": "string"}}},
        "dto.LoginResponse": {"type": "object", "properties": {"statusCode": {"type": "string"}, "message": {"type": "string"}, "accessToken": {"type": "string"}, "refreshToken": {"type": "string"}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "nopo API",
	Description:      "API отзывов о ресторанах.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
