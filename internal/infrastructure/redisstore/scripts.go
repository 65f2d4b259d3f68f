package redisstore

import "github.com/redis/go-redis/v9"

// Script results below zero are failures: -1 missing user, -2 email taken,
// -3 phone taken.
const (
	resultNotFound   = -1
	resultEmailTaken = -2
	resultPhoneTaken = -3
)

// createScript claims the email and phone keys and writes the user in one
// step, so two concurrent registrations cannot both pass the uniqueness check.
//
// KEYS: seq, email claim, phone claim, created index
// ARGV: document, created score, user key prefix
var createScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[2]) == 1 then return -2 end
if redis.call('EXISTS', KEYS[3]) == 1 then return -3 end
local id = redis.call('INCR', KEYS[1])
redis.call('SET', ARGV[3] .. id, ARGV[1])
redis.call('SET', KEYS[2], id)
redis.call('SET', KEYS[3], id)
redis.call('ZADD', KEYS[4], ARGV[2], string.format('%020d', id))
return id
`)

// updateScript swaps the email and phone claims from the stored document to
// the new one and replaces the document.
//
// KEYS: user, new email claim, new phone claim
// ARGV: id, document, key prefix
var updateScript = redis.NewScript(`
local cur = redis.call('GET', KEYS[1])
if not cur then return -1 end
local owner = redis.call('GET', KEYS[2])
if owner and owner ~= ARGV[1] then return -2 end
owner = redis.call('GET', KEYS[3])
if owner and owner ~= ARGV[1] then return -3 end
local old = cjson.decode(cur)
redis.call('DEL', ARGV[3] .. 'email:' .. old.personalInfo.email)
redis.call('DEL', ARGV[3] .. 'phone:' .. old.personalInfo.phone)
redis.call('SET', KEYS[2], ARGV[1])
redis.call('SET', KEYS[3], ARGV[1])
redis.call('SET', KEYS[1], ARGV[2])
return 1
`)

// deleteScript removes the document, its claims and its index entry.
//
// KEYS: user, created index
// ARGV: key prefix, index member
var deleteScript = redis.NewScript(`
local cur = redis.call('GET', KEYS[1])
if not cur then return -1 end
local old = cjson.decode(cur)
redis.call('DEL', KEYS[1], ARGV[1] .. 'email:' .. old.personalInfo.email, ARGV[1] .. 'phone:' .. old.personalInfo.phone)
redis.call('ZREM', KEYS[2], ARGV[2])
return 1
`)
