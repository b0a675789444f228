package connector

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"penneo-esign/internal/domain/entity"
)

// EntityPtr constrains generic reads to pointers of entity structs, e.g. *entity.CaseFile
type EntityPtr[T any] interface {
	*T
	entity.Entity
}

func newEntity[T any, PT EntityPtr[T]]() PT {
	return PT(new(T))
}

func setParent(e entity.Entity, parent entity.Entity) {
	if parent == nil {
		return
	}
	if child, ok := e.(entity.Child); ok {
		child.SetParent(parent)
	}
}

// ReadObject fetches one entity. The URL comes from the resolver unless
// relativeURL is given; id is appended when present and force-assigned onto
// the result. A non-200 answer yields nil without error.
func ReadObject[T any, PT EntityPtr[T]](ctx context.Context, c *Connector, parent entity.Entity, id *int, relativeURL string) (PT, error) {
	kind := newEntity[T, PT]().Kind()

	path := relativeURL
	if path == "" {
		var err error
		path, err = c.resources.Resource(kind, parent)
		if err != nil {
			return nil, err
		}
	}
	if id != nil {
		path += "/" + strconv.Itoa(*id)
	}

	resp, err := c.callServer(ctx, http.MethodGet, path, callOptions{})
	if err != nil {
		return nil, err
	}
	if resp.statusCode != http.StatusOK {
		if parent != nil {
			c.extractResponse(parent, resp, &entity.ServerResult{})
		}
		return nil, nil
	}

	if len(bytes.TrimSpace(resp.body)) == 0 {
		c.logger.Warn("Empty response body", zap.String("entity", string(kind)), zap.String("path", path))
		return nil, nil
	}

	obj := newEntity[T, PT]()
	if err := json.Unmarshal(resp.body, obj); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", kind, err)
	}
	if id != nil {
		obj.SetID(*id)
	}
	setParent(obj, parent)
	c.extractResponse(obj, resp, &entity.ServerResult{})

	return obj, nil
}

// GetLinkedEntities lists the entities nested below parent, or at url when given.
// A rejected call is reported through the result, not as an error.
func GetLinkedEntities[T any, PT EntityPtr[T]](ctx context.Context, c *Connector, parent entity.Entity, url string) (*entity.QueryResult[PT], error) {
	path := url
	if path == "" {
		var err error
		path, err = c.resources.NestedResource(parent, newEntity[T, PT]().Kind())
		if err != nil {
			return nil, err
		}
	}

	resp, err := c.callServer(ctx, http.MethodGet, path, callOptions{})
	if err != nil {
		return nil, err
	}

	result := &entity.QueryResult[PT]{}
	if !c.extractResponse(parent, resp, &result.ServerResult) {
		return result, nil
	}

	objects, err := decodeList[T, PT](resp.body)
	if err != nil {
		return nil, err
	}
	for _, obj := range objects {
		setParent(obj, parent)
	}
	result.Objects = objects
	return result, nil
}

// FindLinkedEntity fetches the entity with id nested below parent. An answer
// outside the success set is returned as a *StatusError.
func FindLinkedEntity[T any, PT EntityPtr[T]](ctx context.Context, c *Connector, parent entity.Entity, id int) (PT, error) {
	base, err := c.resources.NestedResource(parent, newEntity[T, PT]().Kind())
	if err != nil {
		return nil, err
	}
	path := base + "/" + strconv.Itoa(id)

	resp, err := c.callServer(ctx, http.MethodGet, path, callOptions{})
	if err != nil {
		return nil, err
	}
	if !c.extractResponse(parent, resp, &entity.ServerResult{}) {
		return nil, &StatusError{
			Method:     http.MethodGet,
			URL:        path,
			StatusCode: resp.statusCode,
			Body:       string(resp.body),
		}
	}

	obj := newEntity[T, PT]()
	if err := json.Unmarshal(resp.body, obj); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", obj.Kind(), err)
	}
	setParent(obj, parent)
	return obj, nil
}

// FindBy queries the collection of T. Query keys are sent with their first
// character lower-cased. page and perPage are optional and must be positive.
func FindBy[T any, PT EntityPtr[T]](ctx context.Context, c *Connector, query map[string]any, page, perPage *int) (bool, []PT, error) {
	resource, err := c.resources.Segment(newEntity[T, PT]().Kind())
	if err != nil {
		return false, nil, err
	}

	resp, err := c.callServer(ctx, http.MethodGet, resource, callOptions{
		query:   query,
		page:    page,
		perPage: perPage,
	})
	if err != nil {
		return false, nil, err
	}
	if !isSuccess(resp.statusCode) {
		c.logger.Warn("Find failed",
			zap.String("resource", resource),
			zap.Int("status", resp.statusCode),
		)
		return false, nil, nil
	}

	objects, err := decodeList[T, PT](resp.body)
	if err != nil {
		return false, nil, err
	}
	return true, objects, nil
}

func decodeList[T any, PT EntityPtr[T]](body []byte) ([]PT, error) {
	if len(body) == 0 {
		return []PT{}, nil
	}
	var objects []PT
	if err := json.Unmarshal(body, &objects); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s list: %w", newEntity[T, PT]().Kind(), err)
	}
	return objects, nil
}

// GetAsset decodes the asset of e into T. An empty or rejected answer yields the zero value.
func GetAsset[T any](ctx context.Context, c *Connector, e entity.Entity, assetName string) (T, error) {
	var zero T

	resp, err := c.getAsset(ctx, e, assetName)
	if err != nil {
		return zero, err
	}
	if len(resp.body) == 0 || !isSuccess(resp.statusCode) {
		return zero, nil
	}

	var asset T
	if err := json.Unmarshal(resp.body, &asset); err != nil {
		return zero, fmt.Errorf("failed to unmarshal asset %s: %w", assetName, err)
	}
	return asset, nil
}

func (c *Connector) getAsset(ctx context.Context, e entity.Entity, assetName string) (*response, error) {
	path, err := assetURL(e, assetName)
	if err != nil {
		return nil, err
	}
	resp, err := c.callServer(ctx, http.MethodGet, path, callOptions{})
	if err != nil {
		return nil, err
	}
	c.extractResponse(e, resp, &entity.ServerResult{})
	return resp, nil
}

// GetStringListAsset returns an asset served as a JSON string array
func (c *Connector) GetStringListAsset(ctx context.Context, e entity.Entity, assetName string) ([]string, error) {
	resp, err := c.getAsset(ctx, e, assetName)
	if err != nil {
		return nil, err
	}
	if len(resp.body) == 0 || !isSuccess(resp.statusCode) {
		return nil, nil
	}

	var list []string
	if err := json.Unmarshal(resp.body, &list); err != nil {
		return nil, fmt.Errorf("failed to unmarshal asset %s: %w", assetName, err)
	}
	return list, nil
}

// GetTextAsset returns the first element of a string array asset
func (c *Connector) GetTextAsset(ctx context.Context, e entity.Entity, assetName string) (string, error) {
	list, err := c.GetStringListAsset(ctx, e, assetName)
	if err != nil {
		return "", err
	}
	if len(list) == 0 {
		return "", nil
	}
	return list[0], nil
}

// GetFileAsset returns a base64 encoded text asset as bytes
func (c *Connector) GetFileAsset(ctx context.Context, e entity.Entity, assetName string) ([]byte, error) {
	encoded, err := c.GetTextAsset(ctx, e, assetName)
	if err != nil {
		return nil, err
	}
	if encoded == "" {
		return nil, nil
	}
	content, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode asset %s: %w", assetName, err)
	}
	return content, nil
}
