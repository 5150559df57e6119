package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// 目前只有后台角色；账本接口本身不鉴权
const RoleAdmin = "admin"

type Claims struct {
	UID  string `json:"uid"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTer HS256 签发 / 校验，校验时允许 60s 时钟偏差
type JWTer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

// Issue 每个 token 带唯一 jti
func (j *JWTer) Issue(uid, role string) (string, error) {
	if len(j.Secret) == 0 {
		return "", errors.New("jwt secret is empty")
	}
	now := time.Now()
	claims := Claims{
		UID:  uid,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   uid,
			Issuer:    j.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.Secret)
}

func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	c := &Claims{}
	t, err := jwt.ParseWithClaims(tokenStr, c, func(token *jwt.Token) (any, error) {
		return j.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(60*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !t.Valid {
		return nil, errors.New("invalid token")
	}
	return c, nil
}
